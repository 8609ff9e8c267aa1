package autostart

import (
	"strings"

	"github.com/mrboxik/autostarter/internal/sysenv"
)

// HeadlessFlag makes the program launch its list and exit without a UI.
const HeadlessFlag = "--nobox"

// LaunchTarget returns the command the OS should run at logon. A packaged
// executable runs itself; an interpreted program runs its interpreter on
// the script, preferring the windowless variant of the interpreter
// (pythonw.exe next to python.exe) when one exists.
func LaunchTarget(env sysenv.Env) (string, []string) {
	proc := env.Process
	if !proc.Interpreted() {
		return proc.Executable, []string{HeadlessFlag}
	}

	interpreter := proc.Interpreter
	if w := windowlessVariant(interpreter); w != "" && env.Exists(w) {
		interpreter = w
	}

	var args []string
	if proc.Script != "" {
		args = append(args, proc.Script)
	}
	return interpreter, append(args, HeadlessFlag)
}

func windowlessVariant(p string) string {
	dir, base := "", p
	if i := strings.LastIndexAny(p, `\/`); i >= 0 {
		dir, base = p[:i+1], p[i+1:]
	}
	stem, ext := base, ""
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		stem, ext = base[:i], base[i:]
	}
	if stem == "" || strings.HasSuffix(strings.ToLower(stem), "w") {
		return ""
	}
	return dir + stem + "w" + ext
}

// CommandLine joins args into a single Windows command line, quoting
// them so that CommandLineToArgvW splits it back into the same args.
func CommandLine(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = quoteArg(a)
	}
	return strings.Join(quoted, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}

	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			slashes++
			continue
		case '"':
			b.WriteString(strings.Repeat(`\`, slashes*2+1))
			b.WriteByte(c)
		default:
			b.WriteString(strings.Repeat(`\`, slashes))
			b.WriteByte(c)
		}
		slashes = 0
	}
	// Backslashes before the closing quote must be doubled.
	b.WriteString(strings.Repeat(`\`, slashes*2))
	b.WriteByte('"')
	return b.String()
}
