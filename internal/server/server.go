// Package server exposes graph replicas over HTTP and WebSocket so peers
// can push operations and full snapshots to each other.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/graph"
	"github.com/kevinxiao27/lww-graph/internal/replica"
	"github.com/kevinxiao27/lww-graph/lww"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	MessageInit  = "init"
	MessageOp    = "op"
	MessageMerge = "merge"
	MessageError = "error"
)

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type DocumentResponse struct {
	Replica  string                     `json:"replica"`
	Entries  []graph.Entry[string]      `json:"entries"`
	Dangling []lww.Pair[string, string] `json:"dangling"`
	State    graph.State[string]        `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// client serializes writes, gorilla connections allow one writer at a time.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(msg WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

type Server struct {
	mu        sync.Mutex
	replicaID string
	newClock  func() clock.Clock
	documents map[string]*replica.Replica
	clients   map[string][]*client
	upgrader  websocket.Upgrader
	log       *zap.Logger
}

func New(replicaID string, newClock func() clock.Clock, log *zap.Logger) *Server {
	return &Server{
		replicaID: replicaID,
		newClock:  newClock,
		documents: make(map[string]*replica.Replica),
		clients:   make(map[string][]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/graphs/{doc}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/graphs/{doc}/dump", s.handleDump).Methods(http.MethodGet)
	r.HandleFunc("/graphs/{doc}/ops", s.handleOp).Methods(http.MethodPost)
	r.HandleFunc("/graphs/{doc}/merge", s.handleMerge).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWebSocket)
	return r
}

func (s *Server) getDocument(id string) *replica.Replica {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, exists := s.documents[id]; exists {
		return doc
	}
	doc := replica.New(s.replicaID, s.newClock(), s.log.With(zap.String("doc", id)))
	s.documents[id] = doc
	return doc
}

func (s *Server) document(doc *replica.Replica) DocumentResponse {
	return DocumentResponse{
		Replica:  doc.ID(),
		Entries:  doc.Entries(),
		Dangling: doc.Dangling(),
		State:    doc.Snapshot(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps rejected ops to 409 and malformed ones to 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrDependentFound),
		errors.Is(err, graph.ErrDependentNotFound),
		errors.Is(err, lww.ErrElementDoesNotExist):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// apply runs op against doc and broadcasts it whenever the replica changed.
// A remove of a missing element still records its tombstone, so it is
// broadcast as well as reported.
func (s *Server) apply(docID string, doc *replica.Replica, op replica.Op) error {
	err := doc.Apply(op)
	if err == nil || errors.Is(err, lww.ErrElementDoesNotExist) {
		s.broadcast(docID, MessageOp, op)
	}
	return err
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc := s.getDocument(mux.Vars(r)["doc"])
	writeJSON(w, http.StatusOK, s.document(doc))
}

func (s *Server) handleDump(w http.ResponseWriter, r *http.Request) {
	doc := s.getDocument(mux.Vars(r)["doc"])
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(doc.Dump()))
}

func (s *Server) handleOp(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["doc"]

	var op replica.Op
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errors.Wrap(err, "decoding op").Error()})
		return
	}

	doc := s.getDocument(docID)
	if err := s.apply(docID, doc, op); err != nil {
		writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.document(doc))
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["doc"]

	var st graph.State[string]
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errors.Wrap(err, "decoding snapshot").Error()})
		return
	}

	doc := s.getDocument(docID)
	doc.Merge(st)

	s.broadcast(docID, MessageMerge, st)
	writeJSON(w, http.StatusOK, s.document(doc))
}

func newMessage(typ string, v any) (WSMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return WSMessage{}, errors.Wrapf(err, "encoding %s message", typ)
	}
	return WSMessage{Type: typ, Data: data}, nil
}

func (s *Server) broadcast(docID, typ string, v any) {
	msg, err := newMessage(typ, v)
	if err != nil {
		s.log.Error("broadcast failed", zap.String("doc", docID), zap.Error(err))
		return
	}

	s.mu.Lock()
	clients := append([]*client(nil), s.clients[docID]...)
	s.mu.Unlock()

	s.log.Debug("broadcast", zap.String("doc", docID), zap.String("type", typ), zap.Int("clients", len(clients)))
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			s.log.Warn("write to client failed", zap.String("doc", docID), zap.Error(err))
		}
	}
}

// register sends the current document to c and subscribes it to
// broadcasts. Holding s.mu keeps broadcasts from overtaking the init message.
func (s *Server) register(docID string, doc *replica.Replica, c *client) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hello, err := newMessage(MessageInit, s.document(doc))
	if err != nil {
		return 0, err
	}
	if err := c.send(hello); err != nil {
		return 0, err
	}
	s.clients[docID] = append(s.clients[docID], c)
	return len(s.clients[docID]), nil
}

func (s *Server) unregister(docID string, c *client) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.clients[docID] {
		if other == c {
			s.clients[docID] = append(s.clients[docID][:i], s.clients[docID][i+1:]...)
			break
		}
	}
	return len(s.clients[docID])
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	docID := r.URL.Query().Get("doc")
	doc := s.getDocument(docID)
	c := &client{conn: conn}

	total, err := s.register(docID, doc, c)
	if err != nil {
		s.log.Warn("sending init failed", zap.String("doc", docID), zap.Error(err))
		return
	}
	s.log.Info("client connected", zap.String("doc", docID), zap.Int("clients", total))

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if err := s.handleMessage(docID, doc, msg); err != nil {
			if reply, merr := newMessage(MessageError, ErrorResponse{Error: err.Error()}); merr == nil {
				c.send(reply)
			}
		}
	}

	remaining := s.unregister(docID, c)
	s.log.Info("client disconnected", zap.String("doc", docID), zap.Int("clients", remaining))
}

func (s *Server) handleMessage(docID string, doc *replica.Replica, msg WSMessage) error {
	switch msg.Type {
	case MessageOp:
		var op replica.Op
		if err := json.Unmarshal(msg.Data, &op); err != nil {
			return errors.Wrap(err, "decoding op")
		}
		return s.apply(docID, doc, op)
	case MessageMerge:
		var st graph.State[string]
		if err := json.Unmarshal(msg.Data, &st); err != nil {
			return errors.Wrap(err, "decoding snapshot")
		}
		doc.Merge(st)
		s.broadcast(docID, MessageMerge, st)
	default:
		return errors.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}
