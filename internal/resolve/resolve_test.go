package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/arpchan"
	"github.com/vxoid/cursedv/internal/arpchan/arptest"
)

var (
	ownIP  = addr.MustParseIPv4("10.0.0.2")
	ownMAC = addr.MustParseMAC("02:00:00:00:00:02")
)

func TestWhoHasReturnsMatchingReply(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	target := addr.MustParseIPv4("10.0.0.1")
	mac := addr.MustParseMAC("aa:bb:cc:dd:ee:01")
	fake.AddHost(target, mac)
	// unrelated chatter queued before the answer
	fake.Inject(arpchan.Response{IP: addr.MustParseIPv4("10.0.0.77"), MAC: addr.MustParseMAC("aa:bb:cc:dd:ee:77")})

	timeout := time.Second
	resp, err := WhoHas(fake, target, &timeout)
	require.NoError(t, err)
	assert.Equal(t, arpchan.Response{IP: target, MAC: mac}, resp)
	assert.Equal(t, []addr.IPv4{target}, fake.WhoHasCalls())
}

func TestWhoHasTimeout(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	timeout := 20 * time.Millisecond

	start := time.Now()
	_, err := WhoHas(fake, addr.MustParseIPv4("10.0.0.9"), &timeout)
	assert.ErrorIs(t, err, arpchan.ErrReadTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWhoHasPropagatesSendError(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	sendErr := errors.New("network is down")
	fake.FailWhoHas = func(addr.IPv4) error { return sendErr }

	_, err := WhoHas(fake, addr.MustParseIPv4("10.0.0.1"), nil)
	assert.Same(t, sendErr, err)
}

func TestWhoHasWithoutTimeoutBlocksUntilReply(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	target := addr.MustParseIPv4("10.0.0.1")
	mac := addr.MustParseMAC("aa:bb:cc:dd:ee:01")

	go func() {
		time.Sleep(30 * time.Millisecond)
		fake.Inject(arpchan.Response{IP: target, MAC: mac})
	}()

	resp, err := WhoHas(fake, target, nil)
	require.NoError(t, err)
	assert.Equal(t, mac, resp.MAC)
}

func TestWhoHasContextStopsOnCancel(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := WhoHasContext(ctx, fake, addr.MustParseIPv4("10.0.0.9"), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, fake.WhoHasCalls(), 1)
}

func TestWhoHasContextAlreadyDone(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WhoHasContext(ctx, fake, addr.MustParseIPv4("10.0.0.1"), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.WhoHasCalls())
}

func TestWhoHasContextHonorsTimeout(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	timeout := 250 * time.Millisecond

	start := time.Now()
	_, err := WhoHasContext(context.Background(), fake, addr.MustParseIPv4("10.0.0.9"), &timeout)
	assert.ErrorIs(t, err, arpchan.ErrReadTimeout)
	assert.GreaterOrEqual(t, time.Since(start), timeout)
}

func TestWhoHasContextReturnsReply(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	target := addr.MustParseIPv4("10.0.0.1")
	mac := addr.MustParseMAC("aa:bb:cc:dd:ee:01")

	go func() {
		time.Sleep(150 * time.Millisecond)
		fake.Inject(arpchan.Response{IP: target, MAC: mac})
	}()

	resp, err := WhoHasContext(context.Background(), fake, target, nil)
	require.NoError(t, err)
	assert.Equal(t, mac, resp.MAC)
}

func TestIsAt(t *testing.T) {
	fake := arptest.New(ownIP, ownMAC)
	src := addr.MustParseMAC("de:ad:be:ef:00:01")
	dst := addr.MustParseMAC("aa:bb:cc:dd:ee:01")

	require.NoError(t, IsAt(fake, src, addr.MustParseIPv4("10.0.0.1"), dst, addr.MustParseIPv4("10.0.0.5")))
	assert.Equal(t, []arptest.IsAt{{
		SrcMAC: src,
		SrcIP:  addr.MustParseIPv4("10.0.0.1"),
		DstMAC: dst,
		DstIP:  addr.MustParseIPv4("10.0.0.5"),
	}}, fake.IsAtCalls())
}
