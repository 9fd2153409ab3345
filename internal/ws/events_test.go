package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnnouncer struct{ msgs []Message }

func (f *fakeAnnouncer) BroadcastAll(msg Message) { f.msgs = append(f.msgs, msg) }

func TestRelayRaceEventAnnouncesResult(t *testing.T) {
	out := &fakeAnnouncer{}
	payload := `{"type":"race_result","result":{"race_id":"r1","room":"lobby","winner":"Tea","lane":1,"frames":412}}`

	require.NoError(t, relayRaceEvent(payload, out))
	require.Len(t, out.msgs, 1)
	assert.Equal(t, TypeRaceAnnouncement, out.msgs[0].Type)
	assert.Equal(t, RaceResult{RaceID: "r1", Room: "lobby", Winner: "Tea", Lane: 1, Frames: 412}, out.msgs[0].Data)
}

func TestRelayRaceEventRejectsGarbage(t *testing.T) {
	out := &fakeAnnouncer{}
	assert.Error(t, relayRaceEvent("not json", out))
	assert.Error(t, relayRaceEvent(`{"type":"player_forfeit"}`, out))
	assert.Empty(t, out.msgs)
}
