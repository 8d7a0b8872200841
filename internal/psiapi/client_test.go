package psiapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psicocitas-web/internal/config"
	"psicocitas-web/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.APIConfig{IdentityURL: srv.URL, PsiURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func TestCitasByDateForwardsTokenAndQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/citas", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("psicologoId"))
		assert.Equal(t, "2025-03-10", r.URL.Query().Get("fecha"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"citas":[{"id":1,"fecha":"2025-03-10","hora":"09:00","estado":"pendiente"}]}`))
	})

	citas, err := client.CitasByDate(WithToken(context.Background(), "tok"), 7, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, citas, 1)
	assert.Equal(t, models.EstadoPendiente, citas[0].Estado)
}

func TestFollowUpMissingIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cita/followup/1":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"No hay cita de seguimiento"}`))
		case "/cita/followup/2":
			_, _ = w.Write([]byte(`{"cita":null}`))
		default:
			_, _ = w.Write([]byte(`{"cita":{"id":9,"fecha":"2025-03-20T00:00:00.000Z","hora":"15:00","tipo":"virtual"}}`))
		}
	})

	ctx := context.Background()
	fu, err := client.FollowUp(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, fu)

	fu, err = client.FollowUp(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, fu)

	fu, err = client.FollowUp(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, fu)
	assert.Equal(t, int64(9), fu.ID)
}

func TestSearchStudentSurfacesBackendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("codigo") == "12345678" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Estudiante no encontrado"}`))
			return
		}
		_, _ = w.Write([]byte(`{"estudiante":{"id":4,"nombre":"Luis Quispe","codigo":"76543210","ciclo":3}}`))
	})

	_, err := client.SearchStudent(context.Background(), "12345678")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Estudiante no encontrado", Message(err, "Error al buscar estudiante"))

	student, err := client.SearchStudent(context.Background(), "76543210")
	require.NoError(t, err)
	assert.Equal(t, models.FlexString("3"), student.Ciclo)
}

func TestUpdateProfileResponseShapes(t *testing.T) {
	bodies := []string{
		`{"usuario":{"id":3,"telefono":"912345678","sede":"Cusco"}}`,
		`{"id":3,"telefono":"912345678","sede":"Cusco"}`,
		``,
	}
	i := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		raw, _ := io.ReadAll(r.Body)
		var sent ProfileUpdate
		require.NoError(t, json.Unmarshal(raw, &sent))
		assert.Equal(t, int64(3), sent.ID)
		_, _ = w.Write([]byte(bodies[i]))
		i++
	})

	update := ProfileUpdate{ID: 3, Telefono: "912345678", Sede: "Cusco", Rol: models.RolePsicologo}
	for n := 0; n < 2; n++ {
		user, err := client.UpdateProfile(context.Background(), update)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Cusco", user.Sede)
	}
	user, err := client.UpdateProfile(context.Background(), update)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSlotsBuildIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"horarios":[{"hora":"09:00"},{"hora":"14:00"}]}`))
	})
	slots, err := client.Slots(context.Background(), 5, "2025-03-11")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "5-14:00", slots[1].ID)
}

func TestServerErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	})
	err := client.UpdateCita(context.Background(), 1, UpdateCitaRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/cita/followup/:id/reprogramar", routeLabel("/cita/followup/12/reprogramar"))
}

func TestCreateStudentRequiresID(t *testing.T) {
	var body string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/estudiantes", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(body))
	})
	req := models.CreateEstudianteRequest{Nombre: "Eva Ríos", Codigo: "70011223", Telefono: "912345678"}

	for _, body = range []string{"", `{"estudiante":{"nombre":"Eva Ríos"}}`, `{"message":"ok"}`} {
		_, err := client.CreateStudent(context.Background(), req)
		assert.Error(t, err, body)
	}

	body = `{"estudiante":{"id":12,"nombre":"Eva Ríos","codigo":"70011223"}}`
	student, err := client.CreateStudent(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(12), student.ID)
}
