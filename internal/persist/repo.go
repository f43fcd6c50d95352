package persist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/arenacore/arena/internal/save"
)

var (
	ErrNoSaves      = errors.New("no saves")
	ErrSaveNotFound = errors.New("save not found")
	ErrBadSaveName  = errors.New("invalid save name")
)

// AutosaveName is the slot rewritten by autosave. It never shows up in List.
const AutosaveName = "autosave.json"

// slotPattern matches save<N>.json with N >= 1 and no leading zeros.
var slotPattern = regexp.MustCompile(`^save([1-9]\d*)\.json$`)

// SaveRepo stores snapshots under slot names of the form save<N>.json.
type SaveRepo interface {
	// NextName returns the first unused slot, counting from save1.json.
	NextName(ctx context.Context) (string, error)
	Write(ctx context.Context, name string, s *save.State) error
	Read(ctx context.Context, name string) (*save.State, error)
	// List returns the numbered slots sorted by name.
	List(ctx context.Context) ([]string, error)
}

// SlotName formats slot n.
func SlotName(n int) string {
	return "save" + strconv.Itoa(n) + ".json"
}

// SlotNumber parses a numbered slot name.
func SlotNumber(name string) (int, bool) {
	m := slotPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidName reports whether name is a plain .json file name safe to use as a slot.
func ValidName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("%w: %q", ErrBadSaveName, name)
	}
	return nil
}

// firstFree returns the first slot number >= 1 not present in names.
func firstFree(names []string) string {
	used := make(map[int]bool, len(names))
	for _, n := range names {
		if k, ok := SlotNumber(n); ok {
			used[k] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return SlotName(n)
}

// filterSlots keeps numbered slot names and sorts them lexicographically.
func filterSlots(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := SlotNumber(n); ok {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

// SaveNext writes s into the first free slot and returns its name.
func SaveNext(ctx context.Context, repo SaveRepo, s *save.State) (string, error) {
	name, err := repo.NextName(ctx)
	if err != nil {
		return "", fmt.Errorf("pick slot: %w", err)
	}
	if err := repo.Write(ctx, name, s); err != nil {
		return "", err
	}
	return name, nil
}

// Latest returns the highest numbered slot.
func Latest(ctx context.Context, repo SaveRepo) (string, error) {
	names, err := repo.List(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrNoSaves
	}
	best, bestN := "", 0
	for _, n := range names {
		if k, _ := SlotNumber(n); k > bestN {
			best, bestN = n, k
		}
	}
	return best, nil
}
