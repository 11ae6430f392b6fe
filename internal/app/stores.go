// Package app builds the collaborators shared by the binaries from config.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"video-chat-agent/internal/config"
	"video-chat-agent/internal/integrations/paramstore"
	"video-chat-agent/internal/repository"
)

// ParamLookup is the optional-parameter read used for overrides.
type ParamLookup interface {
	Lookup(ctx context.Context, name string) (string, bool, error)
}

// Deps holds what every binary needs: the shared slot and the backend URL.
type Deps struct {
	Slot       *repository.Slot
	BackendURL string
	close      func() error
}

// Close releases the slot store.
func (d *Deps) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// Init opens the configured slot store and resolves the backend URL. AWS
// configuration is only loaded when DynamoDB or SSM is in use.
func Init(ctx context.Context, cfg *config.Config) (*Deps, error) {
	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return aws.Config{}, fmt.Errorf("app: load AWS config: %w", err)
		}
		awsCfg = &c
		return c, nil
	}

	kv, closeFn, err := openStore(cfg.Slot, loadAWS)
	if err != nil {
		return nil, err
	}
	slot, err := repository.NewSlot(kv)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	backendURL := cfg.BackendURL
	if name := cfg.BackendURLParam(); name != "" {
		c, err := loadAWS()
		if err != nil {
			_ = closeFn()
			return nil, err
		}
		ps, err := paramstore.New(awsssm.NewFromConfig(c))
		if err != nil {
			_ = closeFn()
			return nil, err
		}
		backendURL, err = ResolveBackendURL(ctx, ps, name, backendURL)
		if err != nil {
			_ = closeFn()
			return nil, err
		}
	}

	return &Deps{Slot: slot, BackendURL: backendURL, close: closeFn}, nil
}

// ResolveBackendURL returns the parameter value when it exists, else fallback.
func ResolveBackendURL(ctx context.Context, params ParamLookup, name, fallback string) (string, error) {
	v, ok, err := params.Lookup(ctx, name)
	if err != nil {
		return "", fmt.Errorf("app: resolve backend url: %w", err)
	}
	if !ok || v == "" {
		return fallback, nil
	}
	slog.Info("backend url overridden from parameter store", "param", name)
	return v, nil
}

func openStore(cfg config.SlotConfig, loadAWS func() (aws.Config, error)) (repository.KeyValue, func() error, error) {
	switch cfg.Driver {
	case config.DriverDynamoDB:
		c, err := loadAWS()
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewDynamoStore(awsdynamodb.NewFromConfig(c), cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("slot store: dynamodb", "table", cfg.Table)
		return store, func() error { return nil }, nil
	default:
		store, err := repository.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("slot store: sqlite", "path", cfg.DBPath)
		return store, store.Close, nil
	}
}
