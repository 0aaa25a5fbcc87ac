package formula

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/xtatsux/homebrew-spkdl/internal/github"
	"github.com/xtatsux/homebrew-spkdl/internal/platform"
)

//go:embed formulae/*.lua
var builtinFS embed.FS

// ErrUnknownFormula is returned by Builtin for a name with no embedded file.
var ErrUnknownFormula = errors.New("unknown formula")

// Parser evaluates formula files with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a formula parser. With a nil detector the "platform"
// global is not defined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseString evaluates luaCode and extracts the global "formula" table.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Formula, error) {
	if len(luaCode) > MaxFormulaSize {
		return nil, &ParseError{
			Message: "formula too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(luaCode), MaxFormulaSize),
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, &ParseError{Message: "formula evaluation timed out", Detail: ctx.Err().Error()}
		}
		message := "formula evaluation failed"
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) && apiErr.Type == lua.ApiErrorSyntax {
			message = "Lua syntax error"
		}
		return nil, &ParseError{
			Message: message,
			Detail:  err.Error(),
		}
	}

	return extractFormula(L)
}

// ParseFile reads and evaluates the formula at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Formula, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read formula: %w", err)
	}
	if info.Size() > MaxFormulaSize {
		return nil, &ParseError{
			Message: "formula too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", path, info.Size(), MaxFormulaSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read formula: %w", err)
	}
	return p.ParseString(ctx, string(data))
}

// Builtin evaluates the embedded formula called name.
func (p *Parser) Builtin(ctx context.Context, name string) (*Formula, error) {
	data, err := BuiltinSource(name)
	if err != nil {
		return nil, err
	}
	return p.ParseString(ctx, string(data))
}

// Load resolves ref as a formula file when it names one (a path, or a name
// ending in .lua) and as an embedded formula otherwise. An empty ref loads
// DefaultFormula.
func (p *Parser) Load(ctx context.Context, ref string) (*Formula, error) {
	if ref == "" {
		ref = DefaultFormula
	}
	if IsPath(ref) {
		return p.ParseFile(ctx, ref)
	}
	return p.Builtin(ctx, ref)
}

// IsPath reports whether Load treats ref as a formula file.
func IsPath(ref string) bool {
	return strings.HasSuffix(ref, ".lua") || strings.ContainsRune(ref, filepath.Separator) || strings.Contains(ref, "/")
}

// BuiltinSource returns the Lua source of the embedded formula called name.
func BuiltinSource(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile("formulae/" + name + ".lua")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownFormula, name, strings.Join(BuiltinNames(), ", "))
		}
		return nil, err
	}
	return data, nil
}

// BuiltinNames lists the embedded formulae, sorted.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("formulae")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".lua"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ParseError represents a formula parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// FormatError formats a ParseError for user display. Without verbose the Lua
// stack traceback is dropped.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}

// extractFormula reads the global "formula" table from L and validates it.
func extractFormula(L *lua.LState) (*Formula, error) {
	root, ok := L.GetGlobal(luaGlobalFormula).(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'formula' table",
			Detail:  fmt.Sprintf("expected table, got %s", L.GetGlobal(luaGlobalFormula).Type()),
		}
	}

	var (
		f   Formula
		err error
		ex  = extractor{}
	)

	f.Name = ex.str(root, luaFieldName, luaFieldName)
	f.Desc = ex.str(root, luaFieldDesc, luaFieldDesc)
	f.Homepage = ex.str(root, luaFieldHomepage, luaFieldHomepage)
	f.Version = ex.str(root, luaFieldVersion, luaFieldVersion)
	f.License = ex.str(root, luaFieldLicense, luaFieldLicense)

	strategy := ex.str(root, luaFieldStrategy, luaFieldStrategy)
	if ex.err == nil {
		if f.Strategy, err = github.ParseStrategy(strategy); err != nil {
			ex.fail(luaFieldStrategy, err.Error())
		}
	}

	if resources := ex.table(root, luaFieldResource, luaFieldResource); resources != nil {
		ex.each(resources, luaFieldResource, func(field string, t *lua.LTable) {
			f.Resources = append(f.Resources, Resource{
				OS:        ex.str(t, luaFieldOS, field+"."+luaFieldOS),
				Arch:      ex.str(t, luaFieldArch, field+"."+luaFieldArch),
				URL:       ex.str(t, luaFieldURL, field+"."+luaFieldURL),
				SHA256:    ex.str(t, luaFieldSHA256, field+"."+luaFieldSHA256),
				Signature: ex.str(t, luaFieldSig, field+"."+luaFieldSig),
			})
		})
	}

	if install := ex.table(root, luaFieldInstall, luaFieldInstall); install != nil {
		f.Install.Bin = ex.strList(install, luaFieldBin, luaFieldInstall+"."+luaFieldBin)
	}

	if test := ex.table(root, luaFieldTest, luaFieldTest); test != nil {
		f.Test.Args = ex.strList(test, luaFieldArgs, luaFieldTest+"."+luaFieldArgs)
		f.Test.Expect = ex.str(test, luaFieldExpect, luaFieldTest+"."+luaFieldExpect)
	}

	if ex.err != nil {
		return nil, ex.err
	}

	if err := f.Validate(); err != nil {
		return nil, &ParseError{
			Message: "formula validation failed",
			Detail:  err.Error(),
		}
	}

	return &f, nil
}

// extractor reads typed fields from Lua tables and keeps the first type
// error it meets.
type extractor struct {
	err *ParseError
}

func (x *extractor) fail(field, msg string) {
	if x.err == nil {
		x.err = &ParseError{Message: "invalid field " + field, Detail: msg}
	}
}

// str returns t[key] as a string. nil yields "".
func (x *extractor) str(t *lua.LTable, key, field string) string {
	switch v := t.RawGetString(key).(type) {
	case lua.LString:
		return string(v)
	case *lua.LNilType:
		return ""
	default:
		x.fail(field, fmt.Sprintf("expected string, got %s", v.Type()))
		return ""
	}
}

// table returns t[key] as a table. nil yields nil.
func (x *extractor) table(t *lua.LTable, key, field string) *lua.LTable {
	switch v := t.RawGetString(key).(type) {
	case *lua.LTable:
		return v
	case *lua.LNilType:
		return nil
	default:
		x.fail(field, fmt.Sprintf("expected table, got %s", v.Type()))
		return nil
	}
}

// strList returns the array part of t[key] as strings. A single string is
// accepted as a one-element list.
func (x *extractor) strList(t *lua.LTable, key, field string) []string {
	switch v := t.RawGetString(key).(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		var out []string
		for i := 1; i <= v.Len(); i++ {
			item, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				x.fail(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("expected string, got %s", v.RawGetInt(i).Type()))
				return nil
			}
			out = append(out, string(item))
		}
		return out
	default:
		x.fail(field, fmt.Sprintf("expected list of strings, got %s", v.Type()))
		return nil
	}
}

// each calls fn for every table in the array part of t. nil entries, as
// produced by platform.when, are skipped.
func (x *extractor) each(t *lua.LTable, field string, fn func(field string, item *lua.LTable)) {
	n := t.MaxN()
	for i := 1; i <= n; i++ {
		switch v := t.RawGetInt(i).(type) {
		case *lua.LTable:
			fn(fmt.Sprintf("%s[%d]", field, i), v)
		case *lua.LNilType:
		default:
			x.fail(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("expected table, got %s", v.Type()))
		}
	}
}
