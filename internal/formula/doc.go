// Package formula loads tap formulae: sandboxed Lua files that declare a
// tool's metadata, one downloadable build per platform, the binaries to
// install and a smoke test.
//
// A formula assigns the global table "formula":
//
//	formula = {
//	  name = "spkdl",
//	  version = "0.1.0",
//	  strategy = "release",          -- "auto", "repository" or "release"
//	  resources = {
//	    { os = "darwin", arch = "arm64", url = "https://github.com/...", sha256 = "..." },
//	  },
//	  install = { bin = { "spkdl" } },
//	  test = { args = { "--version" }, expect = "spkdl version" },
//	}
//
// The VM has no os, io, require, load or debug. The read-only "platform"
// table from the platform package is available, so a formula may compute
// its resources. Evaluation is bounded by a timeout and a size limit.
//
// Resource os and arch accept release spellings ("Darwin", "x86_64") and are
// normalized to GOOS/GOARCH values; each URL must match the formula's
// download strategy. Formula.ResourceFor picks the build for a platform.Info.
//
// The default formula is embedded and loaded with Parser.Builtin.
package formula
