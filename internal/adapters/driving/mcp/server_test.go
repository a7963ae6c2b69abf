package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil matcher service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingMatcherService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Matcher: &mockMatcherService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("responder is optional", func(t *testing.T) {
		ports := &Ports{
			Matcher: &mockMatcherService{},
			Tickets: &mockTicketStore{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil matcher service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingMatcherService)
	})

	t.Run("matcher only is valid", func(t *testing.T) {
		ports := &Ports{
			Matcher: &mockMatcherService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Matcher:   &mockMatcherService{},
			Responder: &mockResponderService{},
			Tickets:   &mockTicketStore{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
