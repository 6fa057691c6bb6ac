package engineapi

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ZenLiuCN/engineapi/pattern"
	"github.com/ZenLiuCN/fn"
	"gopkg.in/yaml.v3"
)

type (
	// InterfaceSpec names one interface instance to locate.
	InterfaceSpec struct {
		Key     string `yaml:"key"`
		Module  string `yaml:"module"`
		Version string `yaml:"version"`
	}
	// Signature is the byte pattern marking one member function.
	// Module defaults to the module of the owning interface.
	Signature struct {
		Interface string          `yaml:"interface"`
		Method    string          `yaml:"method"`
		Module    string          `yaml:"module,omitempty"`
		Pattern   pattern.Pattern `yaml:"pattern"`
	}
	// Catalog is everything the engine looks up in the host process.
	Catalog struct {
		Interfaces []InterfaceSpec `yaml:"interfaces"`
		Signatures []Signature     `yaml:"signatures"`
	}
)

func mustSig(iface, method, text string) Signature {
	return Signature{Interface: iface, Method: method, Pattern: pattern.MustParse(text)}
}

// DefaultCatalog returns a fresh copy of the compiled-in catalogue.
// Its patterns are x64 placeholders shaped like the real prologues, not taken
// from a shipped build: check them with sigscan and override them before use.
// When the host binary is updated and a signature stops matching, ship an
// override file instead of rebuilding (see LoadCatalogFile and Merge).
func DefaultCatalog() *Catalog {
	return &Catalog{
		Interfaces: []InterfaceSpec{
			{Key: KeyClient, Module: "engine.dll", Version: "VEngineClient015"},
			{Key: KeyInputStack, Module: "inputsystem.dll", Version: "InputStackSystemVersion001"},
			{Key: KeyCvar, Module: "vstdlib.dll", Version: "VEngineCvar007"},
		},
		Signatures: []Signature{
			mustSig(KeyClient, mServerCmd, "48 89 5C 24 ?? 57 48 81 EC 30 04 00 00 0F B6 FA"),
			mustSig(KeyClient, mClientCmd, "48 8B D1 48 8D 0D ?? ?? ?? ?? 45 33 C0 E9"),
			mustSig(KeyClient, mGetPlayerInfo, "48 89 74 24 ?? 57 48 83 EC 20 49 8B F8 8B F2 85 D2"),
			mustSig(KeyClient, mGetLastTimeStamp, "F3 0F 10 05 ?? ?? ?? ?? C3 CC CC CC 48 8B 05"),
			mustSig(KeyClient, mGetViewAngles, "F2 0F 10 05 ?? ?? ?? ?? F2 0F 11 02 8B 05"),
			mustSig(KeyClient, mSetViewAngles, "40 53 48 83 EC 30 F3 0F 10 02 48 8B DA 0F 2E C0"),
			mustSig(KeyClient, mGetMaxClients, "8B 05 ?? ?? ?? ?? C3 CC 8B 05 ?? ?? ?? ?? 83 F8 02"),
			mustSig(KeyClient, mIsInGame, "83 3D ?? ?? ?? ?? 06 0F 94 C0 C3"),
			mustSig(KeyClient, mIsConnected, "83 3D ?? ?? ?? ?? 02 0F 9D C0 C3"),
			mustSig(KeyClient, mIsDrawingLoadingImage, "0F B6 05 ?? ?? ?? ?? C3 CC CC 0F B6 05 ?? ?? ?? ?? 84"),
			mustSig(KeyClient, mGetLevelName, "48 83 EC 28 80 3D ?? ?? ?? ?? 00 74 ?? 48 8D 05"),
			mustSig(KeyClient, mExecuteClientCmdUnrestricted, "48 8B D1 48 8D 0D ?? ?? ?? ?? 41 B0 01 E9"),
			mustSig(KeyClient, mIsSingleplayer, "33 C0 39 05 ?? ?? ?? ?? 0F 9E C0 C3"),

			mustSig(KeyInputStack, mPushInputContext, "40 53 48 83 EC 20 48 8B D9 B9 20 00 00 00 E8"),
			mustSig(KeyInputStack, mEnableInputContext, "48 85 D2 74 ?? 44 88 42 08 E9"),
			mustSig(KeyInputStack, mSetCursorVisible, "48 85 D2 74 ?? 44 88 42 09 E9"),
			mustSig(KeyInputStack, mSetMouseCapture, "48 85 D2 74 ?? 44 88 42 0A E9"),
			mustSig(KeyInputStack, mSetCursorPosition, "48 85 D2 74 ?? 44 89 42 10 44 89 4A 14 E9"),
			mustSig(KeyInputStack, mIsTopmostEnabledContext, "48 89 5C 24 ?? 48 63 41 18 48 8B DA 85 C0 7E"),

			mustSig(KeyCvar, mFindVar, "40 55 41 56 48 83 EC 38 4C 8B F2 48 8B E9 48 85 D2"),
		},
	}
}

// ModuleOf is the module sig is searched in.
func (c *Catalog) ModuleOf(sig Signature) string {
	if sig.Module != "" {
		return sig.Module
	}
	if is, ok := c.Interface(sig.Interface); ok {
		return is.Module
	}
	return ""
}

// Interface finds an interface by key.
func (c *Catalog) Interface(key string) (InterfaceSpec, bool) {
	for _, is := range c.Interfaces {
		if is.Key == key {
			return is, true
		}
	}
	return InterfaceSpec{}, false
}

// Modules lists every module signatures are searched in, in first use order.
func (c *Catalog) Modules() (mods []string) {
	seen := make(map[string]struct{})
	for _, s := range c.Signatures {
		m := c.ModuleOf(s)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		mods = append(mods, m)
	}
	return
}

// Validate checks that c can produce every binding: each bound interface is
// listed once, each required method has exactly one signature and every
// signature belongs to a known method.
func (c *Catalog) Validate() error {
	keys := make(map[string]struct{}, len(c.Interfaces))
	for _, is := range c.Interfaces {
		if _, ok := bindings[is.Key]; !ok {
			return fmt.Errorf("%w: unknown interface %q", ErrInvalidCatalog, is.Key)
		}
		if _, ok := keys[is.Key]; ok {
			return fmt.Errorf("%w: duplicate interface %q", ErrInvalidCatalog, is.Key)
		}
		if is.Module == "" || is.Version == "" {
			return fmt.Errorf("%w: interface %q needs module and version", ErrInvalidCatalog, is.Key)
		}
		keys[is.Key] = struct{}{}
	}
	seen := make(map[string]struct{}, len(c.Signatures))
	for _, s := range c.Signatures {
		ms, ok := bindings[s.Interface]
		if !ok {
			return fmt.Errorf("%w: %s belongs to unknown interface %q", ErrInvalidCatalog, s.Method, s.Interface)
		}
		if ms.index(s.Method) < 0 {
			return fmt.Errorf("%w: %s is not a method of %q", ErrInvalidCatalog, s.Method, s.Interface)
		}
		if s.Pattern.Len() == 0 {
			return fmt.Errorf("%w: %s has an empty pattern", ErrInvalidCatalog, s.Method)
		}
		id := s.Interface + "." + s.Method
		if _, ok = seen[id]; ok {
			return fmt.Errorf("%w: duplicate signature %s", ErrInvalidCatalog, id)
		}
		seen[id] = struct{}{}
	}
	required := fn.MapKeys(bindings)
	slices.Sort(required)
	for _, key := range required {
		if _, ok := keys[key]; !ok {
			return fmt.Errorf("%w: missing interface %q", ErrInvalidCatalog, key)
		}
		for _, m := range bindings[key] {
			if _, ok := seen[key+"."+m.Name]; !ok {
				return fmt.Errorf("%w: missing signature %s.%s", ErrInvalidCatalog, key, m.Name)
			}
		}
	}
	return nil
}

// Merge returns a copy of c patched by o. Entries are matched by interface key,
// or by interface and method for signatures; only the fields o sets replace
// those of c, so an override may carry just a new version or pattern.
// Unmatched entries of o are appended.
func (c *Catalog) Merge(o *Catalog) *Catalog {
	out := &Catalog{
		Interfaces: slices.Clone(c.Interfaces),
		Signatures: slices.Clone(c.Signatures),
	}
	if o == nil {
		return out
	}
	for _, is := range o.Interfaces {
		i := slices.IndexFunc(out.Interfaces, func(x InterfaceSpec) bool { return x.Key == is.Key })
		if i < 0 {
			out.Interfaces = append(out.Interfaces, is)
			continue
		}
		if is.Module != "" {
			out.Interfaces[i].Module = is.Module
		}
		if is.Version != "" {
			out.Interfaces[i].Version = is.Version
		}
	}
	for _, s := range o.Signatures {
		i := slices.IndexFunc(out.Signatures, func(x Signature) bool {
			return x.Interface == s.Interface && x.Method == s.Method
		})
		if i < 0 {
			out.Signatures = append(out.Signatures, s)
			continue
		}
		if s.Module != "" {
			out.Signatures[i].Module = s.Module
		}
		if s.Pattern.Len() > 0 {
			out.Signatures[i].Pattern = s.Pattern
		}
	}
	return out
}

// LoadCatalog decodes a YAML catalogue. The result may be partial, use it as a Merge override.
func LoadCatalog(r io.Reader) (c *Catalog, err error) {
	c = new(Catalog)
	if err = yaml.NewDecoder(r).Decode(c); err != nil {
		if err == io.EOF {
			return c, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return
}

// LoadCatalogFile is LoadCatalog from a file.
func LoadCatalogFile(path string) (c *Catalog, err error) {
	var f *os.File
	if f, err = os.Open(path); err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	return LoadCatalog(f)
}

// WriteYAML encodes c in the format LoadCatalog reads.
func (c *Catalog) WriteYAML(w io.Writer) error {
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(c); err != nil {
		return err
	}
	return e.Close()
}
