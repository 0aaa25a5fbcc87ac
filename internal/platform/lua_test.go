package platform

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func evalLua(t *testing.T, L *lua.LState, code string) lua.LValue {
	t.Helper()
	if err := L.DoString(code); err != nil {
		t.Fatalf("failed to execute %q: %v", code, err)
	}
	got := L.Get(-1)
	L.Pop(1)
	return got
}

func TestInjectPlatformTable(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		want map[string]lua.LValue
	}{
		{
			name: "linux amd64 ubuntu",
			info: &Info{OS: "linux", Arch: "amd64", KernelArch: "x86_64", Distro: "ubuntu", Family: "debian", Version: "22.04"},
			want: map[string]lua.LValue{
				`return platform.os`:               lua.LString("linux"),
				`return platform.arch`:             lua.LString("amd64"),
				`return platform.kernel_arch`:      lua.LString("x86_64"),
				`return platform.release_os`:       lua.LString("Linux"),
				`return platform.release_arch`:     lua.LString("x86_64"),
				`return platform.is_linux`:         lua.LTrue,
				`return platform.is_macos`:         lua.LFalse,
				`return platform.is_amd64`:         lua.LTrue,
				`return platform.is_apple_silicon`: lua.LFalse,
				`return platform.distro.id`:        lua.LString("ubuntu"),
				`return platform.distro.family`:    lua.LString("debian"),
				`return platform.distro.version`:   lua.LString("22.04"),
			},
		},
		{
			name: "macos arm64",
			info: &Info{OS: "darwin", Arch: "arm64", KernelArch: "arm64"},
			want: map[string]lua.LValue{
				`return platform.release_os`:       lua.LString("Darwin"),
				`return platform.release_arch`:     lua.LString("arm64"),
				`return platform.is_macos`:         lua.LTrue,
				`return platform.is_arm64`:         lua.LTrue,
				`return platform.is_apple_silicon`: lua.LTrue,
				`return platform.distro`:           lua.LNil,
			},
		},
		{
			name: "linux without distro",
			info: &Info{OS: "linux", Arch: "arm64"},
			want: map[string]lua.LValue{
				`return platform.distro`:       lua.LNil,
				`return platform.release_arch`: lua.LString("arm64"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := lua.NewState()
			defer L.Close()

			if err := InjectPlatformTable(L, tt.info); err != nil {
				t.Fatalf("InjectPlatformTable() error = %v", err)
			}

			for code, want := range tt.want {
				got := evalLua(t, L, code)
				if got.Type() != want.Type() || got.String() != want.String() {
					t.Errorf("%s = %v (%v), want %v (%v)", code, got, got.Type(), want, want.Type())
				}
			}
		})
	}
}

func TestPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	for _, code := range []string{
		`platform.os = "windows"`,
		`platform.new_field = "value"`,
		`platform.is_linux = false`,
		`setmetatable(platform, {})`,
	} {
		if err := L.DoString(code); err == nil {
			t.Errorf("%s: expected error when modifying read-only table", code)
		}
	}

	if got := evalLua(t, L, `return platform.os`); got.String() != "linux" {
		t.Errorf("platform.os changed to %v", got)
	}
}

func TestPlatformTable_WhenHelper(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "darwin", Arch: "arm64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	tests := []struct {
		code string
		want lua.LValue
	}{
		{`return platform.when(true, "x")`, lua.LString("x")},
		{`return platform.when(false, "x")`, lua.LNil},
		{`return platform.when(platform.is_apple_silicon, "spkdl_Darwin_arm64.tar.gz")`, lua.LString("spkdl_Darwin_arm64.tar.gz")},
		{`return platform.when(platform.is_linux, "spkdl_Linux_arm64.tar.gz")`, lua.LNil},
	}

	for _, tt := range tests {
		got := evalLua(t, L, tt.code)
		if got.Type() != tt.want.Type() || got.String() != tt.want.String() {
			t.Errorf("%s = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestPlatformTable_AssetName(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	got := evalLua(t, L, `return "spkdl_" .. platform.release_os .. "_" .. platform.release_arch .. ".tar.gz"`)
	if got.String() != "spkdl_Linux_x86_64.tar.gz" {
		t.Errorf("asset name = %v", got)
	}
}
