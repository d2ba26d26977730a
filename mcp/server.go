package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// Server defines the interface for an MCP server transport.
type Server interface {
	Start(ctx context.Context)
	ReadChannel() <-chan JSONRPCRequest
	WriteChannel() chan<- JSONRPCResponse
	Done() <-chan struct{}
	Wait()
	Close() error
}

// StdioServer implements the Server interface using standard input/output.
// One goroutine reads newline-delimited JSON-RPC requests, another writes
// responses; both shut down when the internal context is cancelled.
type StdioServer struct {
	reader      io.Reader
	writer      io.Writer
	logger      *slog.Logger
	readChan    chan JSONRPCRequest
	writeChan   chan JSONRPCResponse
	shutdownCtx context.Context
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
}

// NewStdioServer creates a new StdioServer instance.
func NewStdioServer(reader io.Reader, writer io.Writer) *StdioServer {
	ctx, cancel := context.WithCancel(context.Background())
	return &StdioServer{
		reader:      reader,
		writer:      writer,
		logger:      slog.Default(),
		readChan:    make(chan JSONRPCRequest),
		writeChan:   make(chan JSONRPCResponse),
		shutdownCtx: ctx,
		cancelFunc:  cancel,
	}
}

// Start begins the reader and writer goroutines. Cancelling ctx shuts the
// server down.
func (s *StdioServer) Start(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			s.cancelFunc()
		case <-s.shutdownCtx.Done():
		}
	}()

	s.wg.Add(2)

	go func() {
		defer s.wg.Done()
		defer close(s.readChan)
		scanner := bufio.NewScanner(s.reader)
		for scanner.Scan() {
			select {
			case <-s.shutdownCtx.Done():
				return
			default:
			}
			line := scanner.Bytes()
			var request JSONRPCRequest
			if err := json.Unmarshal(line, &request); err != nil {
				s.logger.Warn("Skipping malformed request line", "error", err)
				continue
			}
			select {
			case s.readChan <- request:
			case <-s.shutdownCtx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && err != io.EOF {
			s.logger.Error("Error reading from transport", "error", err)
		}
		// Reader reaching EOF means the client is gone; start shutdown.
		s.cancelFunc()
	}()

	go func() {
		defer s.wg.Done()
		writer := bufio.NewWriter(s.writer)
		for {
			select {
			case <-s.shutdownCtx.Done():
				_ = writer.Flush()
				return
			case response, ok := <-s.writeChan:
				if !ok {
					_ = writer.Flush()
					return
				}
				respBytes, err := json.Marshal(response)
				if err != nil {
					s.logger.Error("Failed to marshal response", "error", err, "id", response.ID)
					continue
				}
				if err := s.writeResponse(writer, respBytes); err != nil {
					s.logger.Error("Failed to write response", "error", err)
					s.cancelFunc()
					return
				}
			}
		}
	}()
}

func (s *StdioServer) writeResponse(writer *bufio.Writer, respBytes []byte) error {
	if _, err := writer.Write(respBytes); err != nil {
		return err
	}
	if _, err := writer.WriteString("\n"); err != nil {
		return err
	}
	return writer.Flush()
}

// ReadChannel returns the channel for receiving incoming requests.
func (s *StdioServer) ReadChannel() <-chan JSONRPCRequest {
	return s.readChan
}

// WriteChannel returns the channel for sending outgoing responses.
func (s *StdioServer) WriteChannel() chan<- JSONRPCResponse {
	return s.writeChan
}

// Done returns a channel closed when the server begins shutting down.
func (s *StdioServer) Done() <-chan struct{} {
	return s.shutdownCtx.Done()
}

// Wait blocks until the server has shut down completely.
func (s *StdioServer) Wait() {
	<-s.shutdownCtx.Done()
	s.wg.Wait()
}

// Close initiates a graceful shutdown of the server.
func (s *StdioServer) Close() error {
	s.cancelFunc()
	s.Wait()
	close(s.writeChan)
	return nil
}
