package jsonk

import "strings"

// Paths are dot-separated sequences of object keys, e.g. "user.profile.name".
// Every component is an object key; array indexing is not part of the path
// grammar.

// GetByPath walks root along path and returns the value at the end. The root
// and every intermediate node must be an object; a missing component or a
// non-object intermediate ends the walk with ok=false.
func GetByPath(root *Value, path string) (*Value, bool) {
	if root == nil || path == "" || !root.IsObject() {
		return nil, false
	}

	curr := root
	for {
		component, rest, more := cutComponent(path)
		if !curr.IsObject() {
			return nil, false
		}
		next := curr.FindMember(component)
		if next == nil {
			return nil, false
		}
		curr = next
		if !more {
			return curr, true
		}
		path = rest
	}
}

// SetByPath stores a deep copy of val at path, creating missing intermediate
// objects along the way. An intermediate key holding a non-object value is
// replaced with a fresh empty object before the walk continues. At the final
// component an existing member's value is replaced (old value released) or a
// new member is added. The caller keeps ownership of val.
func SetByPath(root *Value, path string, val *Value) error {
	if root == nil || val == nil {
		return ErrNilValue
	}
	if path == "" || !root.IsObject() {
		return ErrNotObject
	}

	curr := root
	for {
		component, rest, more := cutComponent(path)

		if !more {
			dup, err := Clone(val, 1)
			if err != nil {
				return err
			}
			if i := curr.findMemberIndex(component); i >= 0 {
				curr.replaceMemberValue(i, dup)
				return nil
			}
			if err := curr.AddMember(component, dup); err != nil {
				dup.Release()
				return err
			}
			return nil
		}

		i := curr.findMemberIndex(component)
		switch {
		case i < 0:
			intermediate := Object()
			if err := curr.AddMember(component, intermediate); err != nil {
				intermediate.Release()
				return err
			}
			curr = intermediate
		case !curr.members[i].Value.IsObject():
			// Destructive overwrite: the non-object value in the way is
			// dropped for a fresh object.
			intermediate := Object()
			curr.replaceMemberValue(i, intermediate)
			curr = intermediate
		default:
			curr = curr.members[i].Value
		}
		path = rest
	}
}

// cutComponent splits the leading path component off. more is false on the
// last component.
func cutComponent(path string) (component, rest string, more bool) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:], true
	}
	return path, "", false
}
