package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"exoplanet-detector/internal/common"
	"exoplanet-detector/internal/ml"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func TestWebSocketPredict(t *testing.T) {
	s := newTestServer(t, constantModels(0.9, true), Options{})
	conn, closeAll := dialWS(t, s)
	defer closeAll()

	require.NoError(t, conn.WriteJSON(PredictRequest{Features: oneToFourteen()}))
	var res ml.Result
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, ml.Result{TransitProbability: 0.9, Prediction: "Exoplanet detected!", Confidence: "High"}, res)

	// same session keeps serving after a failure
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"features":[1]}`)))
	var errResp ErrorResponse
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.True(t, strings.HasPrefix(errResp.Detail, common.DetailErrorPrefix))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`garbage`)))
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.True(t, strings.HasPrefix(errResp.Detail, common.DetailErrorPrefix))

	require.NoError(t, conn.WriteJSON(PredictRequest{Features: oneToFourteen()}))
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, 0.9, res.TransitProbability)
}

func TestWebSocketModelNotLoaded(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	conn, closeAll := dialWS(t, s)
	defer closeAll()

	require.NoError(t, conn.WriteJSON(PredictRequest{Features: oneToFourteen()}))
	var errResp ErrorResponse
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.Equal(t, "Model not loaded", errResp.Detail)
}

func TestShutdownClosesWebSockets(t *testing.T) {
	s := newTestServer(t, constantModels(0.9, true), Options{})
	conn, closeAll := dialWS(t, s)
	defer closeAll()

	// make sure the session is registered before shutting down
	require.NoError(t, conn.WriteJSON(PredictRequest{Features: oneToFourteen()}))
	var res ml.Result
	require.NoError(t, conn.ReadJSON(&res))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
