package requests_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom-server/services/chat-api/internal/interfaces/httpserver/requests"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/threads?"+rawQuery, nil)
	return c
}

func TestGetPaginationFromQuery_Defaults(t *testing.T) {
	p, err := requests.GetPaginationFromQuery(queryContext(""))
	require.NoError(t, err)

	assert.Equal(t, 20, *p.Limit)
	assert.Equal(t, "desc", p.Order)
	assert.Nil(t, p.Offset)
	assert.Nil(t, p.After)
}

func TestGetPaginationFromQuery_LimitIsCapped(t *testing.T) {
	p, err := requests.GetPaginationFromQuery(queryContext("limit=5000"))
	require.NoError(t, err)

	assert.Equal(t, 100, *p.Limit)
}

func TestGetPaginationFromQuery_OffsetWinsOverAfter(t *testing.T) {
	p, err := requests.GetPaginationFromQuery(queryContext("offset=40&after=7"))
	require.NoError(t, err)

	require.NotNil(t, p.Offset)
	assert.Equal(t, 40, *p.Offset)
	assert.Nil(t, p.After)
}

func TestGetPaginationFromQuery_AfterCursor(t *testing.T) {
	p, err := requests.GetPaginationFromQuery(queryContext("after=7&order=asc"))
	require.NoError(t, err)

	require.NotNil(t, p.After)
	assert.Equal(t, uint(7), *p.After)
	assert.Equal(t, "asc", p.Order)
}

func TestGetPaginationFromQuery_RejectsBadInput(t *testing.T) {
	for _, rawQuery := range []string{"limit=0", "limit=abc", "offset=-1", "after=xyz", "order=sideways"} {
		_, err := requests.GetPaginationFromQuery(queryContext(rawQuery))
		require.Error(t, err, "query %q", rawQuery)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation), "query %q", rawQuery)
	}
}
