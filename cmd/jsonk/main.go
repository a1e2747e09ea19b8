// jsonk - bounded JSON engine CLI
//
// Usage:
//
//	jsonk fmt [options] [file]               Reserialize JSON as minimal text
//	jsonk get <path> [options] [file]        Print the value at a dot path
//	jsonk set <path> <json> [options] [file] Set a dot path and print the document
//	jsonk patch <patchfile> [options] [file] Apply a merge-patch atomically
//	jsonk version                            Print version info
//
// Limits can be overridden with a YAML config file (--config). Output can be
// zstd-compressed for large documents (--zstd).
//
// If no file is given, reads from stdin.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/zstd"

	"github.com/jsonk-io/jsonk/jsonk"
)

const version = "1.0.0"

// limitsConfig is the YAML shape of a limits override file. Zero fields keep
// their defaults.
type limitsConfig struct {
	Limits struct {
		MaxDepth         int `yaml:"max_depth"`
		MaxStringLength  int `yaml:"max_string_length"`
		MaxArrayElements int `yaml:"max_array_elements"`
		MaxObjectMembers int `yaml:"max_object_members"`
		MaxKeyLength     int `yaml:"max_key_length"`
		MaxTotalMemory   int `yaml:"max_total_memory"`
	} `yaml:"limits"`
}

type options struct {
	lim       jsonk.Limits
	zstdOut   bool
	maxOutput int
	args      []string // positional arguments after the subcommand
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "version" {
		fmt.Printf("jsonk %s\n", version)
		return
	}

	opts := parseOptions(os.Args[2:])

	switch cmd {
	case "fmt":
		cmdFmt(opts)
	case "get":
		cmdGet(opts)
	case "set":
		cmdSet(opts)
	case "patch":
		cmdPatch(opts)
	default:
		fmt.Fprintf(os.Stderr, "jsonk: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func parseOptions(args []string) *options {
	opts := &options{
		lim:       jsonk.DefaultLimits(),
		maxOutput: 4 << 20,
	}
	for _, arg := range args {
		switch {
		case arg == "--zstd":
			opts.zstdOut = true
		case strings.HasPrefix(arg, "--config="):
			loadLimits(arg[len("--config="):], &opts.lim)
		case strings.HasPrefix(arg, "--max-output="):
			n, err := strconv.Atoi(arg[len("--max-output="):])
			if err != nil || n <= 0 {
				fatal("invalid --max-output value")
			}
			opts.maxOutput = n
		case strings.HasPrefix(arg, "--"):
			fatal("unknown option: %s", arg)
		default:
			opts.args = append(opts.args, arg)
		}
	}
	return opts
}

// loadLimits overlays non-zero fields from a YAML config onto lim.
func loadLimits(path string, lim *jsonk.Limits) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("read config: %v", err)
	}
	var cfg limitsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fatal("parse config: %v", err)
	}
	c := cfg.Limits
	if c.MaxDepth > 0 {
		lim.MaxDepth = c.MaxDepth
	}
	if c.MaxStringLength > 0 {
		lim.MaxStringLength = c.MaxStringLength
	}
	if c.MaxArrayElements > 0 {
		lim.MaxArrayElements = c.MaxArrayElements
	}
	if c.MaxObjectMembers > 0 {
		lim.MaxObjectMembers = c.MaxObjectMembers
	}
	if c.MaxKeyLength > 0 {
		lim.MaxKeyLength = c.MaxKeyLength
	}
	if c.MaxTotalMemory > 0 {
		lim.MaxTotalMemory = c.MaxTotalMemory
	}
}

// readDocument reads the positional file argument at index i, or stdin.
func readDocument(opts *options, i int) []byte {
	if len(opts.args) > i && opts.args[i] != "-" {
		data, err := os.ReadFile(opts.args[i])
		if err != nil {
			fatal("read input: %v", err)
		}
		return data
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal("read stdin: %v", err)
	}
	return data
}

// writeOutput prints the result, optionally zstd-compressed.
func writeOutput(opts *options, data []byte) {
	if !opts.zstdOut {
		fmt.Println(string(data))
		return
	}
	zw, err := zstd.NewWriter(os.Stdout)
	if err != nil {
		fatal("zstd: %v", err)
	}
	if _, err := zw.Write(data); err != nil {
		fatal("write output: %v", err)
	}
	if err := zw.Close(); err != nil {
		fatal("write output: %v", err)
	}
}

func cmdFmt(opts *options) {
	doc := parseInput(opts, readDocument(opts, 0))
	defer doc.Release()
	writeOutput(opts, []byte(jsonk.EmitString(doc)))
}

func cmdGet(opts *options) {
	if len(opts.args) < 1 {
		fatal("get: missing path argument")
	}
	path := opts.args[0]

	doc := parseInput(opts, readDocument(opts, 1))
	defer doc.Release()

	v, ok := jsonk.GetByPath(doc, path)
	if !ok {
		fatal("path not found: %s", path)
	}
	writeOutput(opts, []byte(jsonk.EmitString(v)))
}

func cmdSet(opts *options) {
	if len(opts.args) < 2 {
		fatal("set: need path and value arguments")
	}
	path, valueText := opts.args[0], opts.args[1]

	val := parseInput(opts, []byte(valueText))
	defer val.Release()

	doc := parseInput(opts, readDocument(opts, 2))
	defer doc.Release()

	if err := jsonk.SetByPath(doc, path, val); err != nil {
		fatal("set %s: %v", path, err)
	}
	writeOutput(opts, []byte(jsonk.EmitString(doc)))
}

func cmdPatch(opts *options) {
	if len(opts.args) < 1 {
		fatal("patch: missing patch file argument")
	}
	patch, err := os.ReadFile(opts.args[0])
	if err != nil {
		fatal("read patch: %v", err)
	}

	target := readDocument(opts, 1)
	out := make([]byte, opts.maxOutput)

	res, n := jsonk.ApplyPatch(target, patch, out)
	if !res.Applied() {
		fatal("patch failed: %s", res)
	}
	fmt.Fprintf(os.Stderr, "jsonk: patch result: %s\n", res)
	writeOutput(opts, out[:n])
}

func parseInput(opts *options, data []byte) *jsonk.Value {
	v, err := jsonk.ParseWithLimits(data, opts.lim)
	if err != nil {
		fatal("%v", err)
	}
	return v
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "jsonk: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `jsonk - bounded JSON engine CLI (v`+version+`)

Usage:
  jsonk fmt [options] [file]               Reserialize JSON as minimal text
  jsonk get <path> [options] [file]        Print the value at a dot path
  jsonk set <path> <json> [options] [file] Set a dot path and print the document
  jsonk patch <patchfile> [options] [file] Apply a merge-patch atomically
  jsonk version                            Print version info

Options:
  --config=FILE      YAML file overriding parse limits
  --max-output=N     Output buffer capacity for patch results (default 4 MiB)
  --zstd             Compress output with zstd

Paths are dot-separated object keys: user.profile.name

If no file is given, reads from stdin.

Examples:
  echo '{ "b" : 1, "a" : 2 }' | jsonk fmt
  # Output: {"b":1,"a":2}

  echo '{"user":{"name":"ada"}}' | jsonk get user.name
  # Output: "ada"

  echo '{}' | jsonk set x.y.z true
  # Output: {"x":{"y":{"z":true}}}

  echo '{"age":30,"tmp":"x"}' | jsonk patch <(echo '{"age":31,"tmp":null}')
  # Output: {"age":31}

Config file format:
  limits:
    max_depth: 32
    max_string_length: 1048576
    max_total_memory: 67108864
`)
}
