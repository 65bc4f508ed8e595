package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClient struct {
	mu   sync.Mutex
	msgs [][]byte
	fail bool
}

func (f *fakeClient) Send(m []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return false
	}
	f.msgs = append(f.msgs, m)
	return true
}

func (f *fakeClient) Close() {}

func TestHub_PublishToOwner(t *testing.T) {
	h := NewHub()
	alice, aliceTab, bob := &fakeClient{}, &fakeClient{}, &fakeClient{}
	h.Register("1", alice)
	h.Register("1", aliceTab)
	h.Register("2", bob)

	n := h.Publish("1", Event{Type: EventImportFinished, ProjectID: 3, Payload: map[string]int{"tasks": 2}})
	require.Equal(t, 2, n)
	require.Len(t, alice.msgs, 1)
	require.Empty(t, bob.msgs)

	var ev struct {
		Type      string         `json:"type"`
		ProjectID uint           `json:"project_id"`
		Payload   map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(alice.msgs[0], &ev))
	require.Equal(t, EventImportFinished, ev.Type)
	require.Equal(t, uint(3), ev.ProjectID)
	require.Equal(t, 2, ev.Payload["tasks"])
}

func TestHub_FailedClientNotCounted(t *testing.T) {
	h := NewHub()
	h.Register("1", &fakeClient{fail: true})
	require.Zero(t, h.Publish("1", Event{Type: EventLabelCreated}))
	require.Zero(t, h.Publish("", Event{Type: EventLabelCreated}))
}

func TestHub_Unregister(t *testing.T) {
	h := NewHub()
	c := &fakeClient{}
	h.Register("1", c)
	require.Equal(t, 1, h.Clients("1"))
	h.Unregister("1", c)
	require.Zero(t, h.Clients("1"))
	require.Zero(t, h.Publish("1", Event{Type: EventTaskDeleted}))
}

func TestHub_ConcurrentRegisterPublish(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := &fakeClient{}
			h.Register("u", c)
			h.Publish("u", Event{Type: EventLabelCreated})
			h.Unregister("u", c)
		}()
	}
	wg.Wait()
	require.Zero(t, h.Clients("u"))
}
