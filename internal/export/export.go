// Package export streams the entities of a collection to a sink.
package export

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/acoulton/github-v3-api/internal/constants"
	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

// Static errors for err113 compliance.
var (
	ErrNilSink      = errors.New("export sink is nil")
	ErrEmptySubject = errors.New("NATS subject is empty")
)

// Sink receives one encoded entity at a time.
type Sink interface {
	Write(ctx context.Context, schema string, record []byte) error
	Close() error
}

// Stream walks coll in order and writes each entity to sink. A limit of zero
// or less exports everything. It returns the number of entities written.
func Stream(ctx context.Context, coll *ghapi.Collection, sink Sink, limit int) (int, error) {
	if sink == nil {
		return 0, ErrNilSink
	}

	written := 0

	for entity, err := range coll.All(ctx) {
		if err != nil {
			return written, fmt.Errorf("reading %s: %w", coll.BaseURL(), err)
		}

		record, err := json.Marshal(entity)
		if err != nil {
			return written, fmt.Errorf("encoding item %d: %w", written, err)
		}

		err = sink.Write(ctx, entity.Schema().Name, record)
		if err != nil {
			return written, fmt.Errorf("writing item %d: %w", written, err)
		}

		written++

		if limit > 0 && written >= limit {
			break
		}
	}

	return written, nil
}

// JSONLinesSink writes one JSON document per line.
type JSONLinesSink struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewJSONLinesSink writes to w. The caller keeps ownership of w.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	return &JSONLinesSink{w: bufio.NewWriter(w)}
}

// Write appends record and a newline.
func (s *JSONLinesSink) Write(_ context.Context, _ string, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.w.Write(record)
	if err != nil {
		return err
	}

	return s.w.WriteByte('\n')
}

// Close flushes buffered lines.
func (s *JSONLinesSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.w.Flush()
	if err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}

	return nil
}

// Publisher is the part of *nats.Conn used by NATSSink.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
}

// NATSSink publishes each record on subject.<schema>.
type NATSSink struct {
	pub     Publisher
	subject string
	closeFn func()
}

// NewNATSSink publishes through pub.
func NewNATSSink(pub Publisher, subject string) (*NATSSink, error) {
	if subject == "" {
		return nil, ErrEmptySubject
	}

	return &NATSSink{pub: pub, subject: subject}, nil
}

// DialNATS connects to the server at url and returns a sink that owns the
// connection.
func DialNATS(url, subject string, opts ...nats.Option) (*NATSSink, error) {
	conn, err := nats.Connect(url, append([]nats.Option{nats.Name(constants.NATSClientName)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	sink, err := NewNATSSink(conn, subject)
	if err != nil {
		conn.Close()

		return nil, err
	}

	sink.closeFn = conn.Close

	return sink, nil
}

// Write publishes record with the schema name in a header.
func (s *NATSSink) Write(_ context.Context, schema string, record []byte) error {
	msg := nats.NewMsg(s.subject + "." + schema)
	msg.Header.Set("Ghapi-Schema", schema)
	msg.Data = record

	err := s.pub.PublishMsg(msg)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", msg.Subject, err)
	}

	return nil
}

// Close flushes pending messages and closes an owned connection.
func (s *NATSSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.NATSFlushTimeout)
	defer cancel()

	err := s.pub.FlushWithContext(ctx)

	if s.closeFn != nil {
		s.closeFn()
	}

	if err != nil {
		return fmt.Errorf("flushing NATS: %w", err)
	}

	return nil
}
