package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSessionConfig(t *testing.T) {
	cfg := DefaultSessionConfig()
	assert.True(t, cfg.DiscardOutOfOrder)
	assert.True(t, cfg.AutomatedRTCPHandling)
	assert.Equal(t, DefaultBufferSize, cfg.SendBufferSize)
	assert.Equal(t, DefaultBufferSize, cfg.ReceiveBufferSize)
	assert.Equal(t, uint32(3), cfg.MaxCollisionsBeforeConsideringLoop)
}

func TestApplyDefaultsFillsZeroValuesOnly(t *testing.T) {
	cfg := SessionConfig{SendBufferSize: 9000}
	cfg.applyDefaults()

	assert.Equal(t, 9000, cfg.SendBufferSize, "explicit value must survive")
	assert.Equal(t, DefaultBufferSize, cfg.ReceiveBufferSize)
	assert.Equal(t, uint32(3), cfg.MaxCollisionsBeforeConsideringLoop)
	assert.NotNil(t, cfg.AdmissionPolicy)
	assert.IsType(t, AlwaysAdmit{}, cfg.AdmissionPolicy)
}

func TestApplyDefaultsPreservesExplicitAdmissionPolicy(t *testing.T) {
	custom := AlwaysAdmit{}
	cfg := SessionConfig{AdmissionPolicy: custom}
	cfg.applyDefaults()
	assert.Equal(t, custom, cfg.AdmissionPolicy)
}
