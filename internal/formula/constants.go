package formula

import "time"

// Lua schema field names and globals
const (
	luaGlobalFormula = "formula"
	luaFieldName     = "name"
	luaFieldDesc     = "desc"
	luaFieldHomepage = "homepage"
	luaFieldVersion  = "version"
	luaFieldLicense  = "license"
	luaFieldStrategy = "strategy"
	luaFieldResource = "resources"
	luaFieldOS       = "os"
	luaFieldArch     = "arch"
	luaFieldURL      = "url"
	luaFieldSHA256   = "sha256"
	luaFieldSig      = "signature"
	luaFieldInstall  = "install"
	luaFieldBin      = "bin"
	luaFieldTest     = "test"
	luaFieldArgs     = "args"
	luaFieldExpect   = "expect"
)

// Resource limits for formula evaluation.
const (
	MaxFormulaSize   = 256 * 1024
	MaxResources     = 32
	DefaultTimeout   = 5 * time.Second
	maxCallStackSize = 256
	maxRegistrySize  = 8 * 1024
)

// DefaultFormula is the formula installed when none is named.
const DefaultFormula = "spkdl"
