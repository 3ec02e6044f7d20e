package sipper

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var retrySleep = time.Second

var errNotConnected = errors.New("source not connected")

// reconnecting wraps a Source connect function and transparently re-opens
// the underlying connection after it drops. While the source is down,
// queries fail fast and at most one connect attempt is made per retrySleep,
// so a dead serial port does not stall the cycle. Not safe for concurrent
// use; the engine is the only caller.
type reconnecting struct {
	name    string
	connect func() (Source, error)
	src     Source
	lastTry time.Time
}

// NewReconnecting returns a Source that supervises the connection produced
// by connect, named in logs as name.
func NewReconnecting(name string, connect func() (Source, error)) Source {
	return &reconnecting{
		name:    name,
		connect: connect,
	}
}

func (r *reconnecting) Query(ctx context.Context, param string) (string, error) {
	if r.src == nil {
		if timeNow().Sub(r.lastTry) < retrySleep && !r.lastTry.IsZero() {
			return "", errNotConnected
		}
		r.lastTry = timeNow()
		src, err := r.connect()
		if err != nil {
			return "", errors.Wrapf(err, "%s: unable to connect", r.name)
		}
		r.src = src
		log.Infof("%s: connected", r.name)
	}

	value, err := r.src.Query(ctx, param)
	if err != nil && !r.src.Connected() {
		log.WithField("err", err).Errorf("%s: reconnecting due to error", r.name)
		if closeErr := r.src.Close(); closeErr != nil {
			log.WithField("err", closeErr).Warnf("%s: unable to close", r.name)
		}
		r.src = nil
		r.lastTry = timeNow()
	}
	return value, err
}

func (r *reconnecting) Connected() bool {
	return r.src != nil && r.src.Connected()
}

func (r *reconnecting) Close() error {
	if r.src == nil {
		return nil
	}
	err := r.src.Close()
	r.src = nil
	return err
}
