package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/nsapi"
	"github.com/vk/nne/internal/testutil"
)

func TestDifference(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		members      []string
		endorsements []string
		want         []string
	}{
		{
			name:         "some endorsing",
			members:      []string{"A", "B", "C"},
			endorsements: []string{"B"},
			want:         []string{"A", "C"},
		},
		{
			name:         "all endorsing",
			members:      []string{"A", "B", "C"},
			endorsements: []string{"A", "B", "C"},
			want:         []string{},
		},
		{
			name:         "none endorsing keeps order",
			members:      []string{"c", "a", "b"},
			endorsements: nil,
			want:         []string{"c", "a", "b"},
		},
		{
			name:         "duplicates preserved",
			members:      []string{"a", "b", "a", "c", "a"},
			endorsements: []string{"c"},
			want:         []string{"a", "b", "a", "a"},
		},
		{
			name:         "endorsers outside the region ignored",
			members:      []string{"a", "b"},
			endorsements: []string{"x", "y", "b"},
			want:         []string{"a"},
		},
		{
			name:         "matching is exact",
			members:      []string{"Great_Nation", "great nation"},
			endorsements: []string{"great_nation"},
			want:         []string{"Great_Nation", "great nation"},
		},
		{
			name:         "empty members",
			members:      []string{},
			endorsements: []string{"a"},
			want:         []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Difference(tc.members, tc.endorsements)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Difference() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDifference_SubsetOfMembers(t *testing.T) {
	t.Parallel()

	members := []string{"a", "b", "c", "d", "e", "b"}
	endorsements := []string{"e", "z", "a"}

	got := Difference(members, endorsements)
	inMembers := map[string]int{}
	for _, m := range members {
		inMembers[m]++
	}
	for _, n := range got {
		require.Positive(t, inMembers[n], "%q is not a member", n)
		inMembers[n]--
		require.NotContains(t, endorsements, n)
	}
}

func TestNonEndorsing(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	api.WANations["osiris"] = []string{"A", "B", "C"}
	api.Endorsements["great_nation"] = []string{"B"}
	ctx, _ := testutil.LoggedContext(t)

	d := NewDifferencer(nsapi.NewClient("nne-test", nsapi.WithBaseURL(api.URL())))
	got, err := d.NonEndorsing(ctx, "osiris", "great_nation")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, got)
	assert.Len(t, api.Requests(), 2)
	assert.Empty(t, api.Posts())
}

func TestNonEndorsing_MissingMembersField(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	api.WANations["osiris"] = []string{"A"}
	api.OmitFields["UNNATIONS"] = true

	d := NewDifferencer(nsapi.NewClient("nne-test", nsapi.WithBaseURL(api.URL())))
	_, err := d.NonEndorsing(context.Background(), "osiris", "great_nation")

	var pe *apperr.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "UNNATIONS", pe.Field)
}

type failingSource struct {
	err error
}

func (f failingSource) WANations(context.Context, string) ([]string, error) {
	return []string{"a"}, nil
}

func (f failingSource) Endorsements(context.Context, string) ([]string, error) {
	return nil, f.err
}

func TestNonEndorsing_EndorsementsError(t *testing.T) {
	t.Parallel()

	boom := &apperr.TransportError{Op: "GET", URL: "http://example.test", Err: errors.New("connection reset")}
	_, err := NewDifferencer(failingSource{err: boom}).NonEndorsing(context.Background(), "r", "d")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetch endorsements of d")
}
