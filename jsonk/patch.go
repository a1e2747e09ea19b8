package jsonk

// PatchResult is the outcome of ApplyPatch. PatchSuccess and PatchNoChange
// both mean the patch applied; they differ only so callers can skip a
// write-back when nothing changed.
type PatchResult uint8

const (
	PatchSuccess       PatchResult = iota // applied, document changed
	PatchNoChange                         // applied, no change needed
	PatchErrorParse                       // target malformed
	PatchErrorType                        // a document root is not an object
	PatchErrorMemory                      // allocation or capacity failure during copy/merge
	PatchErrorOverflow                    // result does not fit the output buffer
)

// String returns the result code name.
func (r PatchResult) String() string {
	switch r {
	case PatchSuccess:
		return "success"
	case PatchNoChange:
		return "no change"
	case PatchErrorParse:
		return "parse error"
	case PatchErrorType:
		return "type error"
	case PatchErrorMemory:
		return "memory error"
	case PatchErrorOverflow:
		return "buffer overflow"
	default:
		return "unknown"
	}
}

// Applied reports whether the patch was applied (successfully or as a no-op).
func (r PatchResult) Applied() bool {
	return r == PatchSuccess || r == PatchNoChange
}

// ApplyPatch applies merge-patch semantics to a JSON document and writes the
// result into out, returning the result code and the byte count written.
//
// Both texts are parsed independently. A malformed target is PatchErrorParse.
// A malformed patch is deliberately not an error: the target is echoed into
// out unchanged with PatchNoChange, so a bad patch can never destroy a good
// document. A non-object root on either side is PatchErrorType.
//
// Application is atomic. The parsed target is deep-copied and the merge runs
// only against the copy; the result is serialized from the copy and all
// three trees are released. No failure mode mutates the conceptual original:
// every non-Applied result leaves the caller's document exactly as it was.
//
// Merge semantics, recursive and object-vs-object only:
//   - an empty patch value (null, "", [] or {}) removes the same-named
//     target member if present, and is a no-op otherwise
//   - a non-empty value under an absent key is added as a deep copy
//   - object against object merges recursively
//   - anything else replaces the target member wholesale with a deep copy,
//     except that replacing a value with a structurally equal one is skipped
//     and does not count as a change
func ApplyPatch(target, patch, out []byte) (PatchResult, int) {
	targetDoc, err := Parse(target)
	if err != nil {
		return PatchErrorParse, 0
	}
	defer targetDoc.Release()

	if !targetDoc.IsObject() {
		return PatchErrorType, 0
	}

	patchDoc, err := Parse(patch)
	if err != nil {
		// Invalid patch: return the original document unchanged.
		if len(target) > len(out) {
			return PatchErrorOverflow, 0
		}
		copy(out, target)
		return PatchNoChange, len(target)
	}
	defer patchDoc.Release()

	if !patchDoc.IsObject() {
		return PatchErrorType, 0
	}

	// Deep copy before mutation: the merge below never touches targetDoc.
	working, err := Clone(targetDoc, 0)
	if err != nil {
		return PatchErrorMemory, 0
	}
	defer working.Release()

	changed, err := mergeObjects(working, patchDoc)
	if err != nil {
		return PatchErrorMemory, 0
	}

	n, err := Serialize(working, out)
	if err != nil {
		return PatchErrorOverflow, 0
	}

	if changed {
		return PatchSuccess, n
	}
	return PatchNoChange, n
}

// isEmptySentinel reports whether a patch value means delete: null, the
// empty string, the empty array or the empty object.
func isEmptySentinel(v *Value) bool {
	switch v.Type() {
	case TypeNull:
		return true
	case TypeString:
		return len(v.strVal) == 0
	case TypeArray:
		return len(v.elems) == 0
	case TypeObject:
		return len(v.members) == 0
	default:
		return false
	}
}

// mergeObjects merges patch into dst member by member, fail-fast: the first
// error propagates immediately and the caller discards the whole working
// copy, so a half-merged tree is never observable.
func mergeObjects(dst, patch *Value) (bool, error) {
	changed := false

	for i := range patch.members {
		key := patch.members[i].Key
		pv := patch.members[i].Value
		di := dst.findMemberIndex(key)

		if isEmptySentinel(pv) {
			// Delete-by-empty: absent keys are a no-op, not an error.
			if di >= 0 {
				dst.RemoveMember(key)
				changed = true
			}
			continue
		}

		if di < 0 {
			dup, err := Clone(pv, 1)
			if err != nil {
				return changed, err
			}
			if err := dst.AddMember(key, dup); err != nil {
				dup.Release()
				return changed, err
			}
			changed = true
			continue
		}

		existing := dst.members[di].Value
		if pv.IsObject() && existing.IsObject() {
			sub, err := mergeObjects(existing, pv)
			if err != nil {
				return changed, err
			}
			if sub {
				changed = true
			}
			continue
		}

		// Wholesale replace, skipped when the new value equals the old one
		// so idempotent patches report no change.
		if Equal(existing, pv) {
			continue
		}
		dup, err := Clone(pv, 1)
		if err != nil {
			return changed, err
		}
		dst.replaceMemberValue(di, dup)
		changed = true
	}

	return changed, nil
}
