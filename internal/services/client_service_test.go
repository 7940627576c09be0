package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"loyalty_club_backend/internal/models"
	"loyalty_club_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectingStore struct{ repositories.RecordStore }

func (rejectingStore) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func newTestClientService(t *testing.T, store repositories.RecordStore) ClientService {
	t.Helper()
	repo, err := repositories.NewClientRepository(context.Background(), store, repositories.ClientRepositoryOptions{})
	require.NoError(t, err)
	svc := NewClientService(repo)
	t.Cleanup(svc.Close)
	return svc
}

func validForm() ClientFormRequest {
	return ClientFormRequest{
		Name:        "  Alice Cooper ",
		Email:       "alice@example.com",
		Phone:       "+1 (555) 010-0100",
		Points:      models.NewNumber(40),
		TotalVisits: models.NewNumber(2),
	}
}

func TestClientFormRequestValidate(t *testing.T) {
	require.NoError(t, validForm().Validate())

	cases := map[string]struct {
		mutate func(r *ClientFormRequest)
		msg    string
	}{
		"name required": {func(r *ClientFormRequest) { r.Name = "   " }, "Name required"},
		"name short":    {func(r *ClientFormRequest) { r.Name = "A" }, "Name too short"},
		"email":         {func(r *ClientFormRequest) { r.Email = "alice.example.com" }, "Invalid email"},
		"email empty":   {func(r *ClientFormRequest) { r.Email = "" }, "Email required"},
		"phone":         {func(r *ClientFormRequest) { r.Phone = "call me" }, "Invalid phone"},
		"phone empty":   {func(r *ClientFormRequest) { r.Phone = "" }, "Phone required"},
		"date garbage":  {func(r *ClientFormRequest) { r.DateCreated = "yesterday" }, "Invalid date"},
		"date overflow": {func(r *ClientFormRequest) { r.DateCreated = "2024-02-30" }, "Invalid date"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := validForm()
			tc.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestFormCount(t *testing.T) {
	var req ClientFormRequest
	require.NoError(t, json.Unmarshal([]byte(`{"points":"12abc","totalVisits":-4}`), &req))
	assert.Equal(t, 12, formCount(req.Points))
	assert.Equal(t, 0, formCount(req.TotalVisits))

	require.NoError(t, json.Unmarshal([]byte(`{"points":"abc"}`), &req))
	assert.Equal(t, 0, formCount(req.Points))
}

func TestCreateClientThroughService(t *testing.T) {
	svc := newTestClientService(t, repositories.NewMemoryRecordStore())

	created, err := svc.CreateClient(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", created.Name)
	assert.Equal(t, 40, created.Points)

	invalid := validForm()
	invalid.Email = "nope"
	_, err = svc.CreateClient(context.Background(), invalid)
	assert.ErrorIs(t, err, ErrClientValidation)
	assert.Equal(t, 4, svc.GetStats().TotalClients)
}

func TestUpdateAndDeleteThroughService(t *testing.T) {
	svc := newTestClientService(t, repositories.NewMemoryRecordStore())
	ctx := context.Background()

	_, err := svc.UpdateClient(ctx, 99, validForm())
	assert.ErrorIs(t, err, ErrClientNotFound)

	updated, err := svc.UpdateClient(ctx, 1, validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)
	assert.Equal(t, "2024-01-15", updated.DateCreated)

	require.NoError(t, svc.DeleteClient(ctx, 1))
	_, err = svc.GetClientByID(1)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestStatsCacheFollowsStoreChanges(t *testing.T) {
	svc := newTestClientService(t, repositories.NewMemoryRecordStore())
	ctx := context.Background()

	before := svc.GetStats()
	assert.Equal(t, models.ClientStats{TotalClients: 3, TotalPoints: 750, TotalVisits: 35, AveragePoints: 250}, before)

	_, err := svc.AddPoints(ctx, 2, 30)
	require.NoError(t, err)
	after := svc.GetStats()
	assert.Equal(t, int64(780), after.TotalPoints)
	assert.Equal(t, int64(36), after.TotalVisits)
	assert.Equal(t, int64(260), after.AveragePoints)
}

func TestGetClientsView(t *testing.T) {
	svc := newTestClientService(t, repositories.NewMemoryRecordStore())

	view := svc.GetClientsView("jane", FilterAll)
	assert.Equal(t, "Clients", view.Title)
	assert.Equal(t, 1, view.Count)
	require.Len(t, view.Clients, 1)
	assert.Equal(t, "Jane Smith", view.Clients[0].Name)
	assert.Equal(t, "warning", view.Clients[0].VisitTier)
	// stats ignore the search
	assert.Equal(t, 3, view.Stats.TotalClients)

	loyal := svc.GetClientsView("", FilterLoyal)
	assert.Equal(t, "Loyal Clients", loyal.Title)
	assert.Equal(t, "Bob Johnson", loyal.Clients[0].Name)
}

func TestPersistenceFailureSurfacesAsNotSaved(t *testing.T) {
	svc := newTestClientService(t, rejectingStore{repositories.NewMemoryRecordStore()})

	client, err := svc.AddPoints(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrClientNotSaved)
	require.NotNil(t, client)
	assert.Equal(t, 255, client.Points)

	// the change is kept in memory
	got, err := svc.GetClientByID(1)
	require.NoError(t, err)
	assert.Equal(t, 255, got.Points)
}

func TestClientFormRequestAcceptsDateForms(t *testing.T) {
	for _, raw := range []string{"", "2024-03-01", "2024-03-01 10:00:00", "2024-03-01t10:00:00z", "2024-03-01T10:00:00.000Z"} {
		req := validForm()
		req.DateCreated = raw
		assert.NoError(t, req.Validate(), raw)
	}

	req := validForm()
	req.DateCreated = "2024-03-01 10:00:00"
	input := req.toInput()
	require.NotNil(t, input.DateCreated)
	assert.Equal(t, "2024-03-01", *input.DateCreated)
}

func TestCreateClientRejectsBadDate(t *testing.T) {
	svc := newTestClientService(t, repositories.NewMemoryRecordStore())

	req := validForm()
	req.DateCreated = "yesterday"
	_, err := svc.CreateClient(context.Background(), req)
	assert.ErrorIs(t, err, ErrClientValidation)
	assert.Equal(t, 3, svc.GetStats().TotalClients)
}
