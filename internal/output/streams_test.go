package output_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/output"
	"cvsgit.dev/cvsgit/testhelpers"
)

func TestBranchColorsMatchAcrossViews(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	h := testhelpers.NewHistory(t)
	h.Tag("REL1", "a@1.1.0.2")
	h.Tag("REL2", "b@1.1.0.2")
	h.Commit("A", "a@1.1", "b@1.1")
	h.Commit("R1", "a@1.1.2.1")
	h.Commit("R2", "b@1.1.2.1")
	streams := h.Streams(nil)
	require.Equal(t, []string{cvs.MainBranch, "REL1", "REL2"}, streams.Branches())

	tree := strings.Join(output.RenderBranchTree(streams), "\n")
	listing := output.RenderStreams(streams, output.StreamRenderOptions{Commits: true})

	require.Contains(t, tree, output.ColorBranch("◯ REL2", 1))
	require.Contains(t, listing, output.ColorBranch("REL2", 1))
	require.NotContains(t, listing, output.ColorBranch("REL2", 2))
	require.Contains(t, listing, output.ColorBranch(cvs.MainBranch, 0))
}
