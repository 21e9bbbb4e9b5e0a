package cmd_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"porterage/cmd"
	"porterage/internal/core/application/usecases/commands"
	"porterage/internal/core/application/usecases/queries"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewCompositionRoot_InMemoryOnly(t *testing.T) {
	now := time.Date(2026, 8, 1, 7, 0, 0, 0, time.UTC)
	app, err := cmd.NewCompositionRoot(cmd.Config{}, discardLogger(), nil, cmd.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	create, err := commands.NewCreateRequestCommand("1/F", "2/F", request.Normal, "A")
	require.NoError(t, err)
	created, err := app.CreateCreateRequestCommandHandler().Handle(t.Context(), create)
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID())
	assert.Equal(t, now, created.CreatedAt())

	query, err := queries.NewListRequestsQuery(queries.ScopeActive)
	require.NoError(t, err)
	list, err := app.CreateListRequestsQueryHandler().Handle(t.Context(), query)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNewCompositionRoot_RejectsBadSequence(t *testing.T) {
	_, err := cmd.NewCompositionRoot(cmd.Config{IDResetPolicy: "weekly"}, discardLogger(), nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = cmd.NewCompositionRoot(cmd.Config{IDCeiling: -5}, discardLogger(), nil)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestCompositionRoot_ServesWebhookWithDebounce(t *testing.T) {
	app, err := cmd.NewCompositionRoot(cmd.Config{SenderDebounce: time.Hour}, discardLogger(), nil)
	require.NoError(t, err)

	e := echo.New()
	require.NoError(t, app.CreateServer().Register(e))

	send := func() string {
		req := httptest.NewRequest(http.MethodPost, "/webhook/messages", strings.NewReader(`{"From":"A","Body":"queue"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	assert.Equal(t, "📜 No active requests in the queue.", send())
	assert.Equal(t, "⏳ Please wait a moment before sending another message.", send())
}

func TestConfig(t *testing.T) {
	c := cmd.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "porterage"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=porterage sslmode=disable", c.DSN())

	seq, err := cmd.Config{IDResetPolicy: "never"}.Sequence(time.Now())
	require.NoError(t, err)
	assert.Equal(t, request.ResetNever, seq.Policy())

	_, err = cmd.Config{IDCeiling: -1}.Sequence(time.Now())
	require.Error(t, err)
}
