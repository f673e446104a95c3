package engine

import (
	"github.com/openvest/vesting-server/pkg/config"
	"github.com/openvest/vesting-server/pkg/config/env"
	"github.com/openvest/vesting-server/pkg/config/memory"
	"github.com/openvest/vesting-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "VESTING_ENGINE_"

	AdminPublicKeyConfigEnvName = envConfigPrefix + "ADMIN_PUBLIC_KEY"
	defaultAdminPublicKey       = "invalid" // ensure something valid is set

	VaultPublicKeyConfigEnvName = envConfigPrefix + "VAULT_PUBLIC_KEY"
	defaultVaultPublicKey       = "invalid" // ensure something valid is set

	StripedLockParallelizationConfigEnvName = envConfigPrefix + "STRIPED_LOCK_PARALLELIZATION"
	defaultStripedLockParallelization       = 8192
)

type conf struct {
	adminPublicKey config.String
	vaultPublicKey config.String

	stripedLockParallelization config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			adminPublicKey: env.NewStringConfig(AdminPublicKeyConfigEnvName, defaultAdminPublicKey),
			vaultPublicKey: env.NewStringConfig(VaultPublicKeyConfigEnvName, defaultVaultPublicKey),

			stripedLockParallelization: env.NewUint64Config(StripedLockParallelizationConfigEnvName, defaultStripedLockParallelization),
		}
	}
}

// WithStaticConfigs returns fixed configuration, primarily for tests
func WithStaticConfigs(adminPublicKey, vaultPublicKey string) ConfigProvider {
	return func() *conf {
		return &conf{
			adminPublicKey: wrapper.NewStringConfig(memory.NewConfig(adminPublicKey), defaultAdminPublicKey),
			vaultPublicKey: wrapper.NewStringConfig(memory.NewConfig(vaultPublicKey), defaultVaultPublicKey),

			stripedLockParallelization: wrapper.NewUint64Config(memory.NewConfig(uint64(4)), 4),
		}
	}
}
