package events

import (
	"sync"

	"go.uber.org/zap"
)

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

type InMemoryStore struct {
	streams     map[string][]Event
	subscribers map[string][]Handler
	mutex       sync.RWMutex
	allEvents   []Event
	logger      *zap.Logger
}

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore(logger *zap.Logger) *InMemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]Handler),
		allEvents:   make([]Event, 0),
		logger:      logger,
	}
}

func (s *InMemoryStore) Append(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	versioned := Record{
		EventType:    event.Type(),
		Stream:       streamID,
		Payload:      event.Data(),
		OccurredAt:   event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)

	handlers := append(append([]Handler(nil), s.subscribers[versioned.EventType]...), s.subscribers[Wildcard]...)
	if len(handlers) > 0 {
		go s.notify(versioned, handlers)
	}

	return nil
}

func (s *InMemoryStore) Read(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(events) {
		return []Event{}, nil
	}

	out := make([]Event, len(events)-fromVersion+1)
	copy(out, events[fromVersion-1:])
	return out, nil
}

func (s *InMemoryStore) ReadAll(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	out := make([]Event, len(s.allEvents)-fromPosition)
	copy(out, s.allEvents[fromPosition:])
	return out, nil
}

func (s *InMemoryStore) Subscribe(eventTypes []string, handler Handler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

// DropStream forgets a session's stream and removes its events from the global log.
func (s *InMemoryStore) DropStream(streamID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.streams[streamID]; !ok {
		return
	}
	delete(s.streams, streamID)

	kept := s.allEvents[:0]
	for _, event := range s.allEvents {
		if event.StreamID() != streamID {
			kept = append(kept, event)
		}
	}
	for i := len(kept); i < len(s.allEvents); i++ {
		s.allEvents[i] = nil
	}
	s.allEvents = kept
}

func (s *InMemoryStore) notify(event Event, handlers []Handler) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Warn("event handler failed",
				zap.String("event", event.Type()),
				zap.String("stream", event.StreamID()),
				zap.Error(err),
			)
		}
	}
}
