package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/repomirror/internal/model"
)

func TestNewSelectsEnumerator(t *testing.T) {
	s := Settings{GitHubAPIURL: "https://api.github.com/", Timeout: time.Second}

	gh, err := New(context.Background(), model.Profile{Kind: model.KindGitHub, BaseURL: "https://github.com/octocat", Token: "t"}, s)
	require.NoError(t, err)
	assert.IsType(t, &GitHubEnumerator{}, gh)

	gl, err := New(context.Background(), model.Profile{Kind: model.KindGitLab, BaseURL: "https://gitlab.com", GitLabMode: model.GitLabBashStyle}, s)
	require.NoError(t, err)
	require.IsType(t, &GitLabWalker{}, gl)
	assert.Equal(t, model.GitLabBashStyle, gl.(*GitLabWalker).mode)
}

func TestNewRejectsBadProfiles(t *testing.T) {
	_, err := New(context.Background(), model.Profile{Kind: model.KindGitHub, BaseURL: "not a url"}, Settings{})
	require.ErrorIs(t, err, ErrInvalidURL)

	var urlErr *URLError
	require.ErrorAs(t, err, &urlErr)
	assert.Equal(t, "not a url", urlErr.URL)

	_, err = New(context.Background(), model.Profile{Kind: "bitbucket", BaseURL: "https://bitbucket.org/x"}, Settings{})
	require.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestForEachOrdered(t *testing.T) {
	got, err := forEachOrdered(context.Background(), 5, 3, func(_ context.Context, i int) (int, error) {
		time.Sleep(time.Duration(5-i) * time.Millisecond)
		return i * i, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16}, got)
}

func TestForEachOrderedSequentialStopsAtFirstError(t *testing.T) {
	var calls atomic.Int32

	boom := errors.New("boom")

	_, err := forEachOrdered(context.Background(), 4, 1, func(_ context.Context, i int) (int, error) {
		calls.Add(1)
		if i == 1 {
			return 0, boom
		}

		return i, nil
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), calls.Load())
}
