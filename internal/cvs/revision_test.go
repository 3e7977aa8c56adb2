package cvs

import (
	"testing"

	"github.com/stretchr/testify/require"

	cvsgiterrors "cvsgit.dev/cvsgit/internal/errors"
)

func TestParseRevision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Revision
		wantErr bool
	}{
		{name: "trunk revision", input: "1.4", want: "1.4"},
		{name: "branch revision", input: "1.4.2.3", want: "1.4.2.3"},
		{name: "magic branch number", input: "1.4.0.2", want: "1.4.0.2"},
		{name: "empty is Empty", input: "", want: Empty},
		{name: "surrounding space trimmed", input: " 1.2 ", want: "1.2"},
		{name: "single component rejected", input: "1", wantErr: true},
		{name: "odd component count rejected", input: "1.2.3", wantErr: true},
		{name: "non numeric rejected", input: "1.x", wantErr: true},
		{name: "negative rejected", input: "1.-2", wantErr: true},
		{name: "leading zeros canonicalised", input: "1.02", want: "1.2"},
		{name: "leading zeros in a branch number", input: "1.4.00.02", want: "1.4.0.2"},
		{name: "plus sign rejected", input: "1.+3", wantErr: true},
		{name: "empty component rejected", input: "1..2.3", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRevision(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, cvsgiterrors.ErrInvalidRevision)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRevisionBranchArithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		revision Revision
		isBranch bool
		stem     Revision
		number   Revision
	}{
		{revision: "1.4", isBranch: false, stem: Empty, number: Empty},
		{revision: "1.4.0.2", isBranch: true, stem: "1.4", number: "1.4.2"},
		{revision: "1.4.2.3", isBranch: false, stem: "1.4", number: "1.4.2"},
		{revision: "1.4.2.3.0.4", isBranch: true, stem: "1.4.2.3", number: "1.4.2.3.4"},
		{revision: "1.4.2.3.4.1", isBranch: false, stem: "1.4.2.3", number: "1.4.2.3.4"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.revision.String(), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.isBranch, tt.revision.IsBranch())
			require.Equal(t, tt.stem, tt.revision.BranchStem())
			require.Equal(t, tt.number, tt.revision.BranchNumber())
		})
	}
}

func TestRevisionDirectlyPrecedes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from Revision
		to   Revision
		want bool
	}{
		{name: "next on trunk", from: "1.1", to: "1.2", want: true},
		{name: "gap on trunk", from: "1.1", to: "1.3", want: false},
		{name: "regression", from: "1.3", to: "1.2", want: false},
		{name: "same revision", from: "1.2", to: "1.2", want: false},
		{name: "empty to first trunk revision", from: Empty, to: "1.1", want: true},
		{name: "empty to later trunk revision", from: Empty, to: "1.2", want: false},
		{name: "empty to first branch revision", from: Empty, to: "1.4.2.1", want: true},
		{name: "stem to first branch revision", from: "1.4", to: "1.4.2.1", want: true},
		{name: "stem to second branch revision", from: "1.4", to: "1.4.2.2", want: false},
		{name: "other stem to branch", from: "1.3", to: "1.4.2.1", want: false},
		{name: "next on branch", from: "1.4.2.1", to: "1.4.2.2", want: true},
		{name: "sibling branch", from: "1.4.2.1", to: "1.4.4.2", want: false},
		{name: "anything to empty", from: "1.1", to: Empty, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.from.DirectlyPrecedes(tt.to))
		})
	}
}

func TestRevisionPrecedes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from Revision
		to   Revision
		want bool
	}{
		{name: "equal", from: "1.3", to: "1.3", want: true},
		{name: "earlier on trunk", from: "1.2", to: "1.3", want: true},
		{name: "later on trunk", from: "1.4", to: "1.3", want: false},
		{name: "stem of branch", from: "1.3", to: "1.3.2.4", want: true},
		{name: "before stem of branch", from: "1.2", to: "1.3.2.4", want: true},
		{name: "after stem of branch", from: "1.4", to: "1.3.2.1", want: false},
		{name: "earlier on same branch", from: "1.3.2.2", to: "1.3.2.4", want: true},
		{name: "sibling branch", from: "1.3.4.1", to: "1.3.2.4", want: false},
		{name: "branch revision before trunk", from: "1.3.2.1", to: "1.4", want: false},
		{name: "empty precedes everything", from: Empty, to: "1.1", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.from.Precedes(tt.to))
		})
	}
}
