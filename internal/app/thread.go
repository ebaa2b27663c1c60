package app

import (
	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/ui"
)

// localMessage is a thread entry added by this client rather than read from
// the backend transcript.
type localMessage struct {
	seq uint64
	msg ui.ChatMessage
}

// showLocal appends msg to the thread and remembers it until a history
// fetch issued after it has been applied.
func (m *Model) showLocal(msg ui.ChatMessage) {
	m.localSeq++
	m.local = append(m.local, localMessage{seq: m.localSeq, msg: msg})
	m.chat.AppendMessages([]ui.ChatMessage{msg})
}

// deliveredPrefix returns how many leading entries of pending the fetched
// transcript already ends with.
func deliveredPrefix(fetched []backend.Message, pending []localMessage) int {
	for k := min(len(fetched), len(pending)); k > 0; k-- {
		tail := fetched[len(fetched)-k:]
		match := true
		for i := range k {
			if !sameEntry(tail[i], pending[i].msg) {
				match = false
				break
			}
		}
		if match {
			return k
		}
	}
	return 0
}

func sameEntry(fm backend.Message, lm ui.ChatMessage) bool {
	switch lm.Kind {
	case ui.KindUser:
		return fm.IsUser() && fm.Content == lm.Content
	case ui.KindAssistant:
		return !fm.IsUser() && fm.Content == lm.Content
	}
	return false
}
