package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/agit/internal/engine"
)

// #region client-struct
// Client calls a remote scoring service. It satisfies the agent's Scorer.
type Client struct {
	conn grpc.ClientConnInterface
	own  *grpc.ClientConn // closed by Close when Dial created it
}

// #endregion client-struct

// #region constructor
// Dial connects to a scoring service at addr.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, own: conn}, nil
}

// NewClientWithConn uses an existing connection, which the caller keeps
// ownership of.
func NewClientWithConn(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Close shuts down a connection created by Dial.
func (c *Client) Close() error {
	if c.own == nil {
		return nil
	}
	return c.own.Close()
}

// #endregion constructor

// #region calls

// Analyze runs the remote analyzer.
func (c *Client) Analyze(ctx context.Context, text string) (AnalyzeResponse, error) {
	var out AnalyzeResponse
	err := c.call(ctx, MethodAnalyze, TextRequest{Text: text}, &out)
	return out, err
}

// Braid runs the remote fusion engine.
func (c *Client) Braid(ctx context.Context, text string) (BraidResponse, error) {
	var out BraidResponse
	err := c.call(ctx, MethodBraid, TextRequest{Text: text}, &out)
	return out, err
}

// Evaluate scores a change set remotely.
func (c *Client) Evaluate(ctx context.Context, text string) (engine.Verdict, error) {
	var out engine.Verdict
	err := c.call(ctx, MethodEvaluate, TextRequest{Text: text}, &out)
	return out, err
}

// Record appends a committed verdict to the remote history.
func (c *Client) Record(ctx context.Context, v engine.Verdict, message string) error {
	var out RecordResponse
	return c.call(ctx, MethodRecord, RecordRequest{Verdict: v, Message: message}, &out)
}

// UpdateWeights sends expert feedback.
func (c *Client) UpdateWeights(ctx context.Context, feedback []float64) (UpdateWeightsResponse, error) {
	var out UpdateWeightsResponse
	err := c.call(ctx, MethodUpdateWeights, UpdateWeightsRequest{Feedback: feedback}, &out)
	return out, err
}

func (c *Client) call(ctx context.Context, method string, req, out any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), in, resp); err != nil {
		return fmt.Errorf("%s rpc: %w", method, err)
	}
	return fromStruct(resp, out)
}

// #endregion calls
