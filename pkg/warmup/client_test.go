package warmup_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/clambin/warmup-bridge/pkg/warmup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAccessToken(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantToken string
		wantErr   assert.ErrorAssertionFunc
		invalid   bool
	}{
		{name: "valid", password: "secret", wantToken: "token", wantErr: assert.NoError},
		{name: "invalid", password: "wrong", wantErr: assert.Error, invalid: true},
	}

	s := newServer()
	t.Cleanup(s.Close)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := warmup.GetAccessToken(t.Context(), "user@example.com", tt.password, warmup.WithURL(s.URL))
			tt.wantErr(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.invalid, errors.Is(err, warmup.ErrInvalidToken))
		})
	}
}

func TestAPIClient_GetRooms(t *testing.T) {
	s := newServer()
	t.Cleanup(s.Close)
	c := warmup.New("user@example.com", "token", warmup.WithURL(s.URL))

	rooms, err := c.GetRooms(t.Context())
	require.NoError(t, err)
	require.Len(t, rooms, 3)

	assert.Equal(t, "Bathroom", rooms[0].Name)
	assert.Equal(t, warmup.ProgramModeProgram, rooms[0].Mode)
	require.NotNil(t, rooms[0].CurrentTemp)
	assert.Equal(t, 21.5, *rooms[0].CurrentTemp)
	assert.Equal(t, 22.0, *rooms[0].TargetTemp)
	assert.Equal(t, 30.0, *rooms[0].TargetTempHigh)
	assert.Equal(t, 5.0, *rooms[0].TargetTempLow)
	assert.Equal(t, 1, rooms[0].Location.ID)

	assert.Equal(t, "Kitchen", rooms[1].Name)
	assert.Nil(t, rooms[1].CurrentTemp)

	assert.Equal(t, "Office", rooms[2].Name)
	assert.Equal(t, warmup.LocationModeOff, rooms[2].Location.Mode)
}

func TestAPIClient_GetRoom(t *testing.T) {
	s := newServer()
	t.Cleanup(s.Close)
	c := warmup.New("user@example.com", "token", warmup.WithURL(s.URL))

	room, err := c.GetRoom(t.Context(), 12)
	require.NoError(t, err)
	assert.Equal(t, "Office", room.Name)
	assert.Equal(t, warmup.ProgramModeFixed, room.Mode)
	assert.Equal(t, "Cottage", room.Location.Name)

	_, err = c.GetRoom(t.Context(), 99)
	var apiErr *warmup.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "getRoom", apiErr.Method)
	assert.Equal(t, "warmup: getRoom: error (room not found)", err.Error())
}

func TestAPIClient_Setters(t *testing.T) {
	s := newServer()
	t.Cleanup(s.Close)
	c := warmup.New("user@example.com", "token", warmup.WithURL(s.URL))

	require.NoError(t, c.SetTemperature(t.Context(), 10, 21.5))
	require.NoError(t, c.SetTemperatureToAuto(t.Context(), 10))
	require.NoError(t, c.SetTemperatureToManual(t.Context(), 10))
	require.NoError(t, c.SetLocationToOff(t.Context(), 2))

	requests := s.requestsFor("setProgramme")
	require.Len(t, requests, 3)
	assert.Equal(t, "fixed", requests[0]["roomMode"])
	assert.Equal(t, map[string]any{"fixedTemp": "215"}, requests[0]["fixed"])
	assert.Equal(t, "prog", requests[1]["roomMode"])
	assert.Equal(t, "fixed", requests[2]["roomMode"])

	requests = s.requestsFor("setModes")
	require.Len(t, requests, 1)
	values := requests[0]["values"].(map[string]any)
	assert.Equal(t, "off", values["locMode"])
	assert.Equal(t, 2.0, values["locId"])
}

func TestAPIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		handler http.HandlerFunc
		invalid bool
		want    string
	}{
		{
			name:    "expired token",
			token:   "expired",
			invalid: true,
			want:    "warmup: getLocations: invalid token",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "down", http.StatusServiceUnavailable)
			},
			want: "warmup: getLocations: Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := ""
			if tt.handler != nil {
				s := httptest.NewServer(tt.handler)
				t.Cleanup(s.Close)
				url = s.URL
			} else {
				s := newServer()
				t.Cleanup(s.Close)
				url = s.URL
			}
			c := warmup.New("user@example.com", tt.token, warmup.WithURL(url))
			_, err := c.GetRooms(t.Context())
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.invalid, errors.Is(err, warmup.ErrInvalidToken))
			var apiErr *warmup.Error
			assert.ErrorAs(t, err, &apiErr)
		})
	}
}

func TestAPIClient_Unreachable(t *testing.T) {
	c := warmup.New("user@example.com", "token", warmup.WithURL("http://localhost:0"))
	err := c.SetTemperatureToAuto(t.Context(), 1)
	var apiErr *warmup.Error
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, errors.Is(err, warmup.ErrInvalidToken))
}

type server struct {
	*httptest.Server
	lock     sync.Mutex
	requests []map[string]any
}

func newServer() *server {
	s := server{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return &s
}

func (s *server) requestsFor(method string) []map[string]any {
	s.lock.Lock()
	defer s.lock.Unlock()
	var requests []map[string]any
	for _, r := range s.requests {
		if r["method"] == method {
			requests = append(requests, r)
		}
	}
	return requests
}

func (s *server) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Request map[string]any `json:"request"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.lock.Lock()
	s.requests = append(s.requests, req.Request)
	s.lock.Unlock()

	method := req.Request["method"].(string)
	if method == "userLogin" {
		if req.Request["password"] != "secret" {
			_, _ = w.Write([]byte(`{"status":{"result":"error","code":401,"message":"invalid credentials"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":{"result":"success"},"response":{"token":"token"}}`))
		return
	}
	if r.Header.Get("warmup-authorization") != "token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var response string
	switch method {
	case "getLocations":
		response = `{"locations":[{"id":1,"name":"Home","locMode":"prog"},{"id":2,"name":"Cottage","locMode":"off"}]}`
	case "getRooms":
		switch req.Request["locId"] {
		case 1.0:
			response = `{"rooms":[
				{"roomId":10,"roomName":"Bathroom","runMode":"prog","currentTemp":215,"targetTemp":220,"maxTemp":300,"minTemp":50},
				{"roomId":11,"roomName":"Kitchen","runMode":"fixed","targetTemp":190,"maxTemp":300,"minTemp":50}
			]}`
		case 2.0:
			response = `{"rooms":[{"roomId":12,"roomName":"Office","runMode":"fixed","currentTemp":180,"targetTemp":200,"maxTemp":300,"minTemp":50}]}`
		}
	case "getRoom":
		if req.Request["roomId"] != 12.0 {
			_, _ = w.Write([]byte(`{"status":{"result":"error","message":"room not found"}}`))
			return
		}
		response = `{"room":{"roomId":12,"locId":2,"roomName":"Office","runMode":"fixed","currentTemp":180,"targetTemp":200,"maxTemp":300,"minTemp":50}}`
	case "setProgramme", "setModes":
		response = `{}`
	default:
		http.Error(w, "unsupported method "+method, http.StatusBadRequest)
		return
	}
	_, _ = w.Write([]byte(`{"status":{"result":"success"},"response":` + response + `}`))
}
