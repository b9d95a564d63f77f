// ABOUTME: Placement engine routes a staged package tree into the project by category table
// ABOUTME: Script categories move whole into owned folders; asset files merge into the shared tree and are recorded

package placement

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/fsutil"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
)

// Strategy decides how a category's staged subtree is placed.
type Strategy int

const (
	// MoveSubtree moves <staged>/<category> to <category>/.kjspkg/<name>.
	MoveSubtree Strategy = iota
	// FlattenAndRecord moves every file under <staged>/<category> to the
	// same relative path in the project and records it.
	FlattenAndRecord
)

func (s Strategy) String() string {
	switch s {
	case MoveSubtree:
		return "move-subtree"
	case FlattenAndRecord:
		return "flatten-and-record"
	default:
		return "unknown"
	}
}

// Category pairs a top-level directory name with its strategy.
type Category struct {
	Name     string
	Strategy Strategy
}

// DefaultCategories is the KubeJS table: three script categories and two
// asset categories.
func DefaultCategories() []Category {
	cats := make([]Category, 0, len(config.ScriptDirs)+len(config.AssetDirs))
	for _, dir := range config.ScriptDirs {
		cats = append(cats, Category{Name: dir, Strategy: MoveSubtree})
	}
	for _, dir := range config.AssetDirs {
		cats = append(cats, Category{Name: dir, Strategy: FlattenAndRecord})
	}
	return cats
}

// Engine places staged trees into the project at Root.
type Engine struct {
	Root       string
	Categories []Category
}

// New returns an Engine with the default category table.
func New(root string) *Engine {
	return &Engine{Root: root, Categories: DefaultCategories()}
}

// Place routes the staged tree of name into the project and returns the
// project-relative, slash-separated paths of every asset file it placed.
// Categories absent from the staged tree are skipped.
func (e *Engine) Place(ctx context.Context, staged, name string) ([]string, error) {
	assets := []string{}

	for _, cat := range e.Categories {
		src := filepath.Join(staged, cat.Name)
		info, err := os.Stat(src)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %v", pkgerr.ErrFilesystem, src, err)
		}
		if !info.IsDir() {
			log.Warn("%s: %s in package tree is not a directory; skipped", name, cat.Name)
			continue
		}

		switch cat.Strategy {
		case MoveSubtree:
			dst := e.ScriptDir(cat.Name, name)
			log.Debug("%s: moving %s -> %s", name, src, dst)
			if err := fsutil.MoveDir(src, dst); err != nil {
				return nil, fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err)
			}
		case FlattenAndRecord:
			placed, err := e.flatten(ctx, staged, src)
			assets = append(assets, placed...)
			if err != nil {
				log.Warn("%s: placement stopped after %d asset files", name, len(assets))
				return nil, err
			}
		default:
			return nil, fmt.Errorf("category %s has unknown strategy %d", cat.Name, cat.Strategy)
		}
	}

	return assets, nil
}

// flatten moves every non-directory entry under src to the matching path
// below Root. Files are moved in sorted order so the recorded list is
// deterministic regardless of walk scheduling.
func (e *Engine) flatten(ctx context.Context, staged, src string) ([]string, error) {
	files, err := collectFiles(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", pkgerr.ErrFilesystem, src, err)
	}

	placed := make([]string, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(staged, file)
		if err != nil {
			return placed, fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err)
		}
		dst, err := fsutil.Within(e.Root, rel)
		if err != nil {
			return placed, fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err)
		}
		if err := fsutil.MoveFile(file, dst); err != nil {
			return placed, fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err)
		}
		placed = append(placed, filepath.ToSlash(rel))
	}
	return placed, nil
}

func collectFiles(ctx context.Context, root string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		mu.Lock()
		files = append(files, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ScriptDir returns the owned folder a package's category subtree lives in.
func (e *Engine) ScriptDir(category, name string) string {
	return filepath.Join(config.OwnedDir(e.Root, category), name)
}

// ScriptDirs returns every owned script folder name could occupy.
func (e *Engine) ScriptDirs(name string) []string {
	var dirs []string
	for _, cat := range e.Categories {
		if cat.Strategy == MoveSubtree {
			dirs = append(dirs, e.ScriptDir(cat.Name, name))
		}
	}
	return dirs
}

// OwnedRoots returns the owned folder of every script category.
func (e *Engine) OwnedRoots() []string {
	var dirs []string
	for _, cat := range e.Categories {
		if cat.Strategy == MoveSubtree {
			dirs = append(dirs, config.OwnedDir(e.Root, cat.Name))
		}
	}
	return dirs
}
