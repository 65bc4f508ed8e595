package dataset

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/testutil"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, root string, f Filters) []string {
	t.Helper()
	var out []string
	for p, err := range ListDir(root, f) {
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func TestListDir_Filters(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{
		"a.jpg", "b.PNG", "c.txt", ".hidden.jpg",
		"sub/d.jpeg", "sub/.e.jpg", ".git/f.jpg", "sub/deeper/g.bmp",
	} {
		require.NoError(t, testutil.WriteFile(filepath.Join(root, filepath.FromSlash(p)), "x"))
	}

	require.Equal(t,
		[]string{"a.jpg", "b.PNG", "sub/d.jpeg", "sub/deeper/g.bmp"},
		collect(t, root, DefaultFilters()))

	require.Equal(t,
		[]string{"a.jpg", "b.PNG", "c.txt", "sub/d.jpeg", "sub/deeper/g.bmp"},
		collect(t, root, AllFilesFilters()))

	// suffixes are case-sensitive
	require.Equal(t, []string{"a.jpg"}, collect(t, root, Filters{IncludePostfix: []string{".jpg"}, ExcludePrefix: []string{"."}}))
}

func TestListDir_StopsEarly(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"1.jpg", "2.jpg", "3.jpg"} {
		require.NoError(t, testutil.WriteFile(filepath.Join(root, p), "x"))
	}
	var seen []string
	for p, err := range ListDir(root, DefaultFilters()) {
		require.NoError(t, err)
		seen = append(seen, p)
		if len(seen) == 2 {
			break
		}
	}
	require.Equal(t, []string{"1.jpg", "2.jpg"}, seen)
}

func TestListDir_MissingRoot(t *testing.T) {
	var gotErr error
	for _, err := range ListDir(filepath.Join(t.TempDir(), "nope"), DefaultFilters()) {
		gotErr = err
	}
	require.True(t, apperr.IsCode(gotErr, apperr.CodeIO))
}

func TestMatchBySuffix_Ambiguous(t *testing.T) {
	pool := NewCandidatePool([]string{"a/cat.jpg", "b/cat.jpg"})
	_, err := pool.MatchBySuffix("cat.jpg")
	require.True(t, apperr.IsCode(err, apperr.CodeImportMatch))
	require.Contains(t, err.Error(), "multiple")
	require.Equal(t, 2, pool.Len())
}

func TestMatchBySuffix_ConsumesMatch(t *testing.T) {
	pool := NewCandidatePool([]string{"a/dog.jpg", "a/cat.jpg"})
	got, err := pool.MatchBySuffix("cat.jpg")
	require.NoError(t, err)
	require.Equal(t, "a/cat.jpg", got)
	require.Equal(t, []string{"a/dog.jpg"}, pool.Remaining())

	_, err = pool.MatchBySuffix("cat.jpg")
	require.True(t, apperr.IsCode(err, apperr.CodeImportMatch))
	require.Contains(t, err.Error(), "no image")
}

func TestMatchBySuffix_PlainSuffix(t *testing.T) {
	// "bigcat.jpg" ends with "cat.jpg" too
	pool := NewCandidatePool([]string{"bigcat.jpg", "x/cat.jpg"})
	_, err := pool.MatchBySuffix("cat.jpg")
	require.True(t, apperr.IsCode(err, apperr.CodeImportMatch))

	got, err := pool.MatchBySuffix("x/cat.jpg")
	require.NoError(t, err)
	require.Equal(t, "x/cat.jpg", got)
}

func TestCollectCandidates_Sorted(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.jpg", "a/c.jpg", "a.jpg"} {
		require.NoError(t, testutil.WriteFile(filepath.Join(root, filepath.FromSlash(p)), "x"))
	}
	pool, err := CollectCandidates(ListDir(root, DefaultFilters()))
	require.NoError(t, err)
	rem := pool.Remaining()
	require.True(t, slices.IsSorted(rem))
	require.Len(t, rem, 3)
}
