package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"ibspot/internal/domain/entity"
	"ibspot/internal/domain/repository"
	"ibspot/internal/domain/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCache is an in-memory CacheStore.
type fakeCache struct {
	mu          sync.Mutex
	entries     []entity.IsinEntry
	users       []entity.User
	session     *entity.User
	credentials map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{credentials: map[string]string{}}
}

func (c *fakeCache) ReadEntries() []entity.IsinEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]entity.IsinEntry(nil), c.entries...)
}

func (c *fakeCache) WriteEntries(entries []entity.IsinEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]entity.IsinEntry(nil), entries...)
}

func (c *fakeCache) ReadUsers() []entity.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users == nil {
		c.users = entity.DefaultRoster()
	}

	return append([]entity.User(nil), c.users...)
}

func (c *fakeCache) WriteUsers(users []entity.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append([]entity.User(nil), users...)
}

func (c *fakeCache) ReadSession() *entity.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session
}

func (c *fakeCache) WriteSession(user *entity.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = user
}

func (c *fakeCache) ReadLocalCredentials() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.credentials))
	for k, v := range c.credentials {
		out[k] = v
	}

	return out
}

func (c *fakeCache) WriteLocalCredentials(creds map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credentials = creds
}

// fakeRemote is an in-memory RemoteStore with injectable failures and a
// manual snapshot push.
type fakeRemote struct {
	mu         sync.Mutex
	docs       map[string]map[string]map[string]any
	putErr     error
	deleteErr  error
	getErr     error
	puts       []string
	deletes    []string
	onSnapshot map[string]func([]repository.Document)
	stops      int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:       map[string]map[string]map[string]any{},
		onSnapshot: map[string]func([]repository.Document){},
	}
}

func (r *fakeRemote) PutDocument(_ context.Context, collection, id string, data map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	if r.docs[collection] == nil {
		r.docs[collection] = map[string]map[string]any{}
	}
	r.docs[collection][id] = data
	r.puts = append(r.puts, collection+"/"+id)

	return nil
}

func (r *fakeRemote) DeleteDocument(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.docs[collection], id)
	r.deletes = append(r.deletes, collection+"/"+id)

	return nil
}

func (r *fakeRemote) GetDocument(_ context.Context, collection, id string) (repository.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return repository.Document{}, r.getErr
	}
	data, ok := r.docs[collection][id]
	if !ok {
		return repository.Document{}, repository.ErrDocumentNotFound
	}

	return repository.Document{ID: id, Data: data}, nil
}

func (r *fakeRemote) SubscribeCollection(
	_ context.Context,
	collection string,
	_ repository.SubscribeOptions,
	onSnapshot func([]repository.Document),
	_ func(error),
) (repository.UnsubscribeFunc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSnapshot[collection] = onSnapshot

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.stops++
	}, nil
}

// push delivers a snapshot to the collection's subscriber.
func (r *fakeRemote) push(collection string, docs []repository.Document) {
	r.mu.Lock()
	cb := r.onSnapshot[collection]
	r.mu.Unlock()
	if cb != nil {
		cb(docs)
	}
}

// fakeAuth is a scripted AuthProvider.
type fakeAuth struct {
	mu         sync.Mutex
	identity   *service.AuthIdentity
	err        error
	signIns    int
	signUps    int
	googleIns  int
	signOuts   int
	authStates []func(*service.AuthIdentity)
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{}
}

func (a *fakeAuth) SignInWithPassword(_ context.Context, _, _ string) (*service.AuthIdentity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signIns++

	return a.identity, a.err
}

func (a *fakeAuth) SignUp(_ context.Context, _, _, _ string) (*service.AuthIdentity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signUps++

	return a.identity, a.err
}

func (a *fakeAuth) SignInWithGoogle(_ context.Context, _ string) (*service.AuthIdentity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.googleIns++

	return a.identity, a.err
}

func (a *fakeAuth) SignOut(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signOuts++

	return nil
}

func (a *fakeAuth) SubscribeAuthState(onChange func(*service.AuthIdentity)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authStates = append(a.authStates, onChange)

	return func() {}
}

// fire simulates an asynchronous auth-state notification.
func (a *fakeAuth) fire(identity *service.AuthIdentity) {
	a.mu.Lock()
	callbacks := append(([]func(*service.AuthIdentity))(nil), a.authStates...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(identity)
	}
}
