package rpc

import (
	"context"
	"testing"

	"github.com/airvent/subscription/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

type recordingConn struct {
	method string
	opts   []grpc.CallOption
	reply  func(out any)
	err    error
}

func (c *recordingConn) Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
	c.method = method
	c.opts = opts
	if c.err != nil {
		return c.err
	}
	if c.reply != nil {
		c.reply(reply)
	}
	return nil
}

func (c *recordingConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	panic("not used")
}

func TestClient_SetsMethodAndCodec(t *testing.T) {
	cc := &recordingConn{reply: func(out any) {
		out.(*PingResponse).Status = "OK"
	}}
	c := NewSubscriptionServiceClient(cc)

	resp, err := c.Ping(context.Background(), &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, PingMethod, cc.method)

	require.NotEmpty(t, cc.opts)
	sub, ok := cc.opts[0].(grpc.ContentSubtypeCallOption)
	require.True(t, ok)
	assert.Equal(t, CodecName, sub.ContentSubtype)
}

func TestClient_MapsErrors(t *testing.T) {
	cc := &recordingConn{err: ToStatus(common.ErrNotPremium)}
	c := NewSubscriptionServiceClient(cc)

	_, err := c.DowngradeFromPremium(context.Background(), &DowngradeFromPremiumRequest{})
	assert.ErrorIs(t, err, common.ErrNotPremium)
	assert.Equal(t, DowngradeFromPremiumMethod, cc.method)
}

func TestServiceDesc_ListsEveryMethod(t *testing.T) {
	names := map[string]bool{}
	for _, m := range ServiceDesc.Methods {
		names["/"+ServiceName+"/"+m.MethodName] = true
	}
	for _, m := range []string{
		CreateSubscriptionMethod, EarnPointsMethod, UpgradeToPremiumMethod,
		DowngradeFromPremiumMethod, GetSubscriptionMethod, HasSubscriptionMethod, PingMethod,
	} {
		assert.True(t, names[m], m)
	}
}
