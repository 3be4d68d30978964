// Package project locates the fabrication files of a board from its base
// name. KiCad and Fritzing naming conventions are both recognised, KiCad
// first.
package project

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// ErrCopperNotFound is returned when no copper layer matches the base name.
var ErrCopperNotFound = errors.New("no copper layer file found")

// Patterns lists, per layer, the file name patterns tried in priority
// order. "{}" stands for the project base name.
type Patterns struct {
	Copper  []string
	Outline []string
	Drill   []string
}

// DefaultPatterns returns the KiCad and Fritzing conventions.
func DefaultPatterns() Patterns {
	return Patterns{
		Copper: []string{
			"{}-F_Cu.gbr",
			"{}-B_Cu.gbr",
			"{}_copperTop.gtl",
			"{}_copperBottom.gbl",
			"{}*_Cu.gbr",
			"{}*.gtl",
			"{}*.gbl",
		},
		Outline: []string{
			"{}-Edge_Cuts.gbr",
			"{}-Edge_cuts.gbr",
			"{}_contour.gm1",
			"{}*Edge*.gbr",
			"{}*contour*",
			"{}*.gm1",
		},
		Drill: []string{
			"{}-PTH.drl",
			"{}.drl",
			"{}-NPTH.drl",
			"{}_drill.txt",
			"{}*.drl",
			"{}*drill*.txt",
		},
	}
}

// Files are the discovered inputs. Outline and Drill are empty when absent.
type Files struct {
	Dir     string
	Base    string
	Copper  string
	Outline string
	Drill   string

	patterns Patterns
}

// Paths returns every discovered file.
func (f *Files) Paths() []string {
	var out []string
	for _, p := range []string{f.Copper, f.Outline, f.Drill} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Related reports whether path could be one of this project's layers:
// it sits in the project directory and matches any layer pattern. Files
// that do not exist yet, such as a drill file exported later, still match.
func (f *Files) Related(path string) bool {
	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(f.Dir) {
		return false
	}
	name := filepath.Base(path)
	for _, list := range [][]string{f.patterns.Copper, f.patterns.Outline, f.patterns.Drill} {
		for _, p := range list {
			g, err := compile(p, f.Base)
			if err == nil && g.Match(name) {
				return true
			}
		}
	}
	return false
}

// Rediscover repeats discovery for the same base name and patterns, picking
// up layers that appeared or disappeared since the last run.
func (f *Files) Rediscover() (*Files, error) {
	return DiscoverWithPatterns(filepath.Join(f.Dir, f.Base), f.patterns)
}

// Discover finds the board files for base, a path without extension such
// as "boards/blinky". A directory matches every file inside it.
func Discover(base string) (*Files, error) {
	return DiscoverWithPatterns(base, DefaultPatterns())
}

// DiscoverWithPatterns is Discover with custom patterns.
func DiscoverWithPatterns(base string, patterns Patterns) (*Files, error) {
	dir, name := filepath.Split(base)
	if info, err := os.Stat(base); err == nil && info.IsDir() {
		dir, name = base, ""
	}
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	files := &Files{Dir: dir, Base: name, patterns: patterns}
	find := func(list []string) (string, error) {
		m, err := firstMatch(names, name, list)
		if err != nil || m == "" {
			return "", err
		}
		return filepath.Join(dir, m), nil
	}

	if files.Copper, err = find(patterns.Copper); err != nil {
		return nil, err
	}
	if files.Outline, err = find(patterns.Outline); err != nil {
		return nil, err
	}
	if files.Drill, err = find(patterns.Drill); err != nil {
		return nil, err
	}

	files.log()
	if files.Copper == "" {
		return nil, fmt.Errorf("%w: base name %q in %s", ErrCopperNotFound, name, dir)
	}
	return files, nil
}

// firstMatch returns the first name matching the highest-priority pattern.
func firstMatch(names []string, base string, patterns []string) (string, error) {
	for _, p := range patterns {
		g, err := compile(p, base)
		if err != nil {
			return "", fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		for _, n := range names {
			if g.Match(n) {
				return n, nil
			}
		}
	}
	return "", nil
}

func compile(pattern, base string) (glob.Glob, error) {
	expanded := ""
	for i := 0; i < len(pattern); i++ {
		if i+1 < len(pattern) && pattern[i] == '{' && pattern[i+1] == '}' {
			expanded += glob.QuoteMeta(base)
			i++
			continue
		}
		expanded += string(pattern[i])
	}
	return glob.Compile(expanded, '/')
}

func (f *Files) log() {
	log.Println("File detection:")
	if f.Copper != "" {
		log.Printf("  Copper layer: %s", filepath.Base(f.Copper))
	} else {
		log.Printf("  Copper layer: NOT FOUND (searched %s-F_Cu.gbr, %s_copperTop.gtl, ...)", f.Base, f.Base)
	}
	if f.Outline != "" {
		log.Printf("  Edge cuts:    %s", filepath.Base(f.Outline))
	} else {
		log.Println("  Edge cuts:    NOT FOUND (optional)")
	}
	if f.Drill != "" {
		log.Printf("  Drill file:   %s", filepath.Base(f.Drill))
	} else {
		log.Println("  Drill file:   NOT FOUND (optional)")
	}
}
