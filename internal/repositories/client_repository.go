package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"loyalty_club_backend/internal/models"
	"loyalty_club_backend/pkg/utils"
)

// DefaultClientsKey is the storage key holding the serialized client collection.
const DefaultClientsKey = "clients"

// clientsDocumentVersion is written into every persisted document. Version 0
// is the bare JSON array layout, which is still accepted on load.
const clientsDocumentVersion = 1

// ClientEventType names the mutation that produced a ClientEvent.
type ClientEventType string

const (
	ClientCreated     ClientEventType = "created"
	ClientUpdated     ClientEventType = "updated"
	ClientDeleted     ClientEventType = "deleted"
	ClientPointsAdded ClientEventType = "points_added"
)

// ClientEvent is delivered to subscribers after every successful in-memory mutation.
// Client is nil for deletions.
type ClientEvent struct {
	Type     ClientEventType
	ClientID int64
	Client   *models.Client
}

// ClientRepository defines the operations of the client store.
// Reads are served from memory; every mutation rewrites the whole collection
// to the underlying RecordStore before returning.
type ClientRepository interface {
	ListClients() []models.Client
	GetClientByID(id int64) (*models.Client, error)
	CreateClient(ctx context.Context, input models.ClientInput) (*models.Client, error)
	UpdateClient(ctx context.Context, id int64, input models.ClientInput) (*models.Client, error)
	DeleteClient(ctx context.Context, id int64) error
	AddPoints(ctx context.Context, id int64, delta int) (*models.Client, error)
	Subscribe(fn func(ClientEvent)) (unsubscribe func())
}

// ClientRepositoryOptions tunes NewClientRepository. The zero value is usable.
type ClientRepositoryOptions struct {
	Key    string             // storage key, DefaultClientsKey when empty
	Avatar utils.AvatarConfig // avatar service, utils.DefaultAvatarConfig when empty
	Now    func() time.Time   // clock used for default creation dates

	// SeedClients replaces the built-in demo clients loaded when storage is empty.
	SeedClients []models.Client
	// SkipSeed starts an empty collection when storage is empty.
	SkipSeed bool
}

type clientRepository struct {
	mu      sync.Mutex
	clients []models.Client
	lastID  int64 // highest id ever assigned, survives deleting that client
	store   RecordStore
	key     string
	avatar  utils.AvatarConfig
	now     func() time.Time

	subMu     sync.Mutex
	subs      map[int]func(ClientEvent)
	nextSubID int
}

// NewClientRepository loads the collection stored under opts.Key and returns a
// repository serving it. A missing or undecodable record starts from the seed
// clients; any other storage error is returned.
func NewClientRepository(ctx context.Context, store RecordStore, opts ClientRepositoryOptions) (ClientRepository, error) {
	r := &clientRepository{
		store:  store,
		key:    opts.Key,
		avatar: opts.Avatar,
		now:    opts.Now,
		subs:   make(map[int]func(ClientEvent)),
	}
	if r.key == "" {
		r.key = DefaultClientsKey
	}
	if r.avatar.BaseURL == "" && r.avatar.Style == "" {
		r.avatar = utils.DefaultAvatarConfig
	}
	if r.now == nil {
		r.now = time.Now
	}

	seed := opts.SeedClients
	if seed == nil && !opts.SkipSeed {
		seed = defaultSeedClients()
	}

	data, err := store.Get(ctx, r.key)
	switch {
	case err == nil:
		doc, decodeErr := decodeClients(data)
		if decodeErr != nil {
			utils.LogWarn(decodeErr, "Stored clients could not be decoded, starting from seed data", map[string]interface{}{"key": r.key})
			r.clients = append([]models.Client(nil), seed...)
		} else {
			r.clients = doc.Clients
			r.lastID = doc.LastID
		}
	case errors.Is(err, ErrRecordNotFound):
		r.clients = append([]models.Client(nil), seed...)
	default:
		return nil, fmt.Errorf("loading clients from storage: %w", err)
	}

	for i := range r.clients {
		if r.clients[i].Avatar == "" {
			r.clients[i].Avatar = r.avatar.URL(r.clients[i].Email, r.clients[i].Name)
		}
	}

	utils.LogInfo("Clients loaded", map[string]interface{}{"key": r.key, "count": len(r.clients)})
	return r, nil
}

func decodeClients(data []byte) (*models.ClientsDocument, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var clients []models.Client
		if err := json.Unmarshal(data, &clients); err != nil {
			return nil, fmt.Errorf("decoding client array: %w", err)
		}
		return &models.ClientsDocument{Clients: clients}, nil
	}
	var doc models.ClientsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding clients document: %w", err)
	}
	if doc.Version > clientsDocumentVersion {
		return nil, fmt.Errorf("clients document version %d is newer than supported version %d", doc.Version, clientsDocumentVersion)
	}
	return &doc, nil
}

// persist writes the whole collection. Callers must hold r.mu.
func (r *clientRepository) persist(ctx context.Context) error {
	clients := r.clients
	if clients == nil {
		clients = []models.Client{}
	}
	data, err := json.Marshal(models.ClientsDocument{Version: clientsDocumentVersion, LastID: r.lastID, Clients: clients})
	if err != nil {
		return fmt.Errorf("%w: encoding clients: %v", ErrNotPersistable, err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		utils.LogError(err, "Failed to persist clients", map[string]interface{}{"key": r.key, "count": len(clients)})
		return fmt.Errorf("%w: %v", ErrNotPersistable, err)
	}
	return nil
}

func (r *clientRepository) indexOf(id int64) int {
	for i := range r.clients {
		if r.clients[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID is max(existing ids)+1, except that an id freed by deleting the
// newest client is never handed out again.
func (r *clientRepository) nextID() int64 {
	maxID := r.lastID
	for _, c := range r.clients {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	r.lastID = maxID + 1
	return r.lastID
}

// ListClients returns every client in insertion order.
func (r *clientRepository) ListClients() []models.Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Client, len(r.clients))
	copy(out, r.clients)
	for i := range out {
		if out[i].Avatar == "" {
			out[i].Avatar = r.avatar.URL(out[i].Email, out[i].Name)
		}
	}
	return out
}

// GetClientByID retrieves a client by its ID.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	client := r.clients[i]
	if client.Avatar == "" {
		client.Avatar = r.avatar.URL(client.Email, client.Name)
	}
	return &client, nil
}

// CreateClient assigns the next id, applies defaults and appends the client.
// If persisting fails the client stays in memory and is returned together with
// an error wrapping ErrNotPersistable.
func (r *clientRepository) CreateClient(ctx context.Context, input models.ClientInput) (*models.Client, error) {
	r.mu.Lock()

	client := models.Client{ID: r.nextID()}
	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if n, ok := input.Points.Int(); ok {
		client.Points = n
	}
	if n, ok := input.TotalVisits.Int(); ok {
		client.TotalVisits = n
	}
	client.DateCreated = utils.Today(r.now())
	if input.DateCreated != nil {
		if d := utils.DateOnly(*input.DateCreated); d != "" {
			client.DateCreated = d
		}
	}
	client.Avatar = r.avatar.URL(client.Email, client.Name)

	r.clients = append(r.clients, client)
	err := r.persist(ctx)
	r.mu.Unlock()

	utils.LogDebug("Client created", map[string]interface{}{"client_id": client.ID})
	r.notify(ClientEvent{Type: ClientCreated, ClientID: client.ID, Client: &client})
	created := client
	return &created, err
}

// UpdateClient replaces the fields present in input. The id never changes,
// whatever input.ID says. Points and visits are only replaced by numeric values.
func (r *clientRepository) UpdateClient(ctx context.Context, id int64, input models.ClientInput) (*models.Client, error) {
	r.mu.Lock()

	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return nil, ErrNotFound
	}

	client := r.clients[i]
	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if n, ok := input.Points.Int(); ok {
		client.Points = n
	}
	if n, ok := input.TotalVisits.Int(); ok {
		client.TotalVisits = n
	}
	if input.DateCreated != nil {
		if d := utils.DateOnly(*input.DateCreated); d != "" {
			client.DateCreated = d
		}
	}
	if d := utils.DateOnly(client.DateCreated); d != "" {
		client.DateCreated = d
	}
	client.Avatar = r.avatar.URL(client.Email, client.Name)

	r.clients[i] = client
	err := r.persist(ctx)
	r.mu.Unlock()

	utils.LogDebug("Client updated", map[string]interface{}{"client_id": id})
	r.notify(ClientEvent{Type: ClientUpdated, ClientID: id, Client: &client})
	updated := client
	return &updated, err
}

// DeleteClient removes the client if present. Deleting an unknown id is not
// an error; the collection is persisted either way.
func (r *clientRepository) DeleteClient(ctx context.Context, id int64) error {
	r.mu.Lock()

	removed := false
	kept := r.clients[:0]
	for _, c := range r.clients {
		if c.ID == id {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	r.clients = kept
	err := r.persist(ctx)
	r.mu.Unlock()

	if removed {
		utils.LogDebug("Client deleted", map[string]interface{}{"client_id": id})
		r.notify(ClientEvent{Type: ClientDeleted, ClientID: id})
	}
	return err
}

// AddPoints credits delta points and records one visit.
func (r *clientRepository) AddPoints(ctx context.Context, id int64, delta int) (*models.Client, error) {
	r.mu.Lock()

	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	r.clients[i].Points += delta
	r.clients[i].TotalVisits++
	client := r.clients[i]
	err := r.persist(ctx)
	r.mu.Unlock()

	utils.LogDebug("Points added", map[string]interface{}{"client_id": id, "delta": delta})
	r.notify(ClientEvent{Type: ClientPointsAdded, ClientID: id, Client: &client})
	updated := client
	return &updated, err
}

// Subscribe registers fn for every subsequent mutation. fn runs synchronously
// on the mutating goroutine after the store lock is released.
func (r *clientRepository) Subscribe(fn func(ClientEvent)) func() {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	r.subs[id] = fn
	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.subs, id)
	}
}

func (r *clientRepository) notify(ev ClientEvent) {
	r.subMu.Lock()
	fns := make([]func(ClientEvent), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func defaultSeedClients() []models.Client {
	return []models.Client{
		{
			ID:          1,
			Name:        "John Doe",
			Email:       "john@example.com",
			Phone:       "+1234567890",
			Points:      250,
			TotalVisits: 12,
			DateCreated: "2024-01-15",
			Avatar:      "https://api.dicebear.com/7.x/notionists/svg?seed=john.doe.1&backgroundColor=b6e3f4,c0aede,d1d4f9,e0e7ff&hair=variant01&hairColor=374151&shirt=variant01&shirtColor=6366f1",
		},
		{
			ID:          2,
			Name:        "Jane Smith",
			Email:       "jane@example.com",
			Phone:       "+1234567891",
			Points:      180,
			TotalVisits: 8,
			DateCreated: "2024-02-20",
			Avatar:      "https://api.dicebear.com/7.x/notionists/svg?seed=jane.smith.2&backgroundColor=b6e3f4,c0aede,d1d4f9,e0e7ff&hair=variant02&hairColor=6b46c1&shirt=variant02&shirtColor=dc2626",
		},
		{
			ID:          3,
			Name:        "Bob Johnson",
			Email:       "bob@example.com",
			Phone:       "+1234567892",
			Points:      320,
			TotalVisits: 15,
			DateCreated: "2024-01-10",
			Avatar:      "https://api.dicebear.com/7.x/notionists/svg?seed=bob.johnson.3&backgroundColor=b6e3f4,c0aede,d1d4f9,e0e7ff&hair=variant03&hairColor=991b1b&shirt=variant03&shirtColor=f59e0b",
		},
	}
}
