//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onsite/internal/settings"
	"onsite/pkg/testutil/containers"
)

func TestPostgresLoadDefaultsWhenEmpty(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	st := NewPostgres(pg.DB)

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), got)
}

func TestPostgresUpdateRoundTrip(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	st := NewPostgres(pg.DB)

	in := settings.Settings{
		PresenceTimeout:    900,
		RefreshInterval:    15,
		CodeWord:           "lobby",
		BackgroundImageURL: "https://example.test/bg.png",
		CustomCSS:          ".card { color: red; }",
	}
	require.NoError(t, st.Update(ctx, in))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// A second update replaces the single settings row.
	in.CodeWord = "atrium"
	require.NoError(t, st.Update(ctx, in))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "atrium", got.CodeWord)
}
