// Package pathutil normalizes user-supplied paths and recognizes paths that
// point back at the running program.
package pathutil

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/mrboxik/autostarter/internal/sysenv"
)

// trimSet lists the characters stripped from both ends of a raw path.
const trimSet = " \t\r\n\v\f\"'"

// Resolver normalizes and compares paths using the rules of its environment.
type Resolver struct {
	env sysenv.Env
}

func NewResolver(env sysenv.Env) *Resolver {
	return &Resolver{env: env}
}

func (r *Resolver) windows() bool {
	return r.env.GOOS == "windows"
}

// Normalize trims whitespace and quotes from raw and makes it absolute.
// It never fails: when the path cannot be resolved, the trimmed input is
// returned. Normalize(Normalize(p)) == Normalize(p).
func (r *Resolver) Normalize(raw string) string {
	p := strings.Trim(raw, trimSet)
	// Cleaning can expose trailing quotes ("a'/." -> "/cwd/a'"), so repeat
	// until the result is stable. Every pass either shortens p or stops.
	for i := 0; i < 8 && p != ""; i++ {
		abs, ok := r.abs(p)
		if !ok {
			return p
		}
		next := strings.Trim(abs, trimSet)
		if next == abs {
			return abs
		}
		p = next
	}
	return p
}

// IsSelf reports whether p refers to the running program, either by full
// path or by file name alone. Both comparisons ignore case. The file name
// check catches shortcuts to a copy stored elsewhere and may flag an
// unrelated program that has the same name.
func (r *Resolver) IsSelf(p string) bool {
	norm := r.Normalize(p)
	self := r.env.Process.SelfPath()
	if norm == "" || self == "" {
		return false
	}
	if strings.EqualFold(norm, self) {
		return true
	}
	return strings.EqualFold(r.Base(norm), r.Base(self))
}

// Base returns the last element of p.
func (r *Resolver) Base(p string) string {
	if !r.windows() {
		return filepath.Base(p)
	}
	p = strings.TrimRight(p, `\/`)
	if i := strings.LastIndexAny(p, `\/`); i >= 0 {
		p = p[i+1:]
	}
	if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
		p = p[2:]
	}
	if p == "" {
		return `\`
	}
	return p
}

func (r *Resolver) abs(p string) (string, bool) {
	if r.windows() {
		return r.absWindows(p)
	}
	if path.IsAbs(p) {
		return path.Clean(p), true
	}
	cwd, ok := r.cwd()
	if !ok {
		return "", false
	}
	return path.Join(cwd, p), true
}

func (r *Resolver) cwd() (string, bool) {
	if r.env.Getwd == nil {
		return "", false
	}
	cwd, err := r.env.Getwd()
	if err != nil || cwd == "" {
		return "", false
	}
	return cwd, true
}

// absWindows resolves p against the working directory with Windows rules.
// It is written against strings rather than path/filepath so that the
// result does not depend on the host running the code.
func (r *Resolver) absWindows(p string) (string, bool) {
	p = strings.ReplaceAll(p, "/", `\`)
	switch {
	case strings.HasPrefix(p, `\\`):
		// UNC: \\server\share is the volume root and ".." never climbs above it.
		parts := strings.SplitN(p[2:], `\`, 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return `\\` + strings.TrimPrefix(cleanWindows(p[1:]), `\`), true
		}
		rest := ""
		if len(parts) == 3 {
			rest = parts[2]
		}
		return `\\` + parts[0] + `\` + parts[1] + cleanWindows(`\`+rest), true
	case hasVolume(p) && len(p) > 2 && p[2] == '\\':
		return strings.ToUpper(p[:1]) + ":" + cleanWindows(p[2:]), true
	case hasVolume(p):
		// Drive-relative ("C:foo"): resolve against the cwd only when it is on the same drive.
		cwd, ok := r.cwd()
		if ok && hasVolume(cwd) && strings.EqualFold(cwd[:1], p[:1]) {
			return r.absWindows(cwd + `\` + p[2:])
		}
		return strings.ToUpper(p[:1]) + ":" + cleanWindows(`\`+p[2:]), true
	}

	cwd, ok := r.cwd()
	if !ok {
		return "", false
	}
	cwd = strings.ReplaceAll(cwd, "/", `\`)
	if strings.HasPrefix(p, `\`) {
		// Root-relative: keep the volume of the cwd.
		if hasVolume(cwd) {
			return r.absWindows(cwd[:2] + p)
		}
		return "", false
	}
	if !hasVolume(cwd) && !strings.HasPrefix(cwd, `\\`) {
		return "", false
	}
	return r.absWindows(cwd + `\` + p)
}

func cleanWindows(p string) string {
	cleaned := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	return strings.ReplaceAll(cleaned, "/", `\`)
}

func hasVolume(p string) bool {
	return len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0])
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
