package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/drummonds/pdfpresenter/bridge"
	"github.com/drummonds/pdfpresenter/config"
)

// StartupChecks performs all the checks to make sure everything works
func (serverHandler *ServerHandler) StartupChecks() error {
	if serverHandler.ServerConfig.S3Bucket != "" {
		if err := serverHandler.objectStoreChecks(); err != nil {
			return err
		}
	} else if err := documentRootChecks(serverHandler.ServerConfig); err != nil {
		return err
	}
	if serverHandler.Library == nil {
		Logger.Error("No PDF library configured")
		return fmt.Errorf("no PDF library configured")
	}
	Logger.Info("PDF library ready", "backend", serverHandler.Library.Name())
	return nil
}

// documentRootChecks ensures the document root, when configured, is a directory
func documentRootChecks(serverConfig config.ServerConfig) error {
	if serverConfig.DocumentRoot == "" {
		Logger.Info("Document root not configured, any readable path can be presented")
		return nil
	}

	rootInfo, err := os.Stat(serverConfig.DocumentRoot)
	if err != nil {
		if os.IsNotExist(err) {
			Logger.Info("Creating document root", "path", serverConfig.DocumentRoot)
			if err := os.MkdirAll(serverConfig.DocumentRoot, 0755); err != nil {
				Logger.Error("Failed to create document root", "path", serverConfig.DocumentRoot, "error", err)
				return err
			}
			Logger.Info("Document root created successfully", "path", serverConfig.DocumentRoot)
			return nil
		}
		Logger.Error("Error checking document root", "path", serverConfig.DocumentRoot, "error", err)
		return err
	}

	// Check if it's actually a directory
	if !rootInfo.IsDir() {
		Logger.Error("Document root exists but is not a directory", "path", serverConfig.DocumentRoot)
		return fmt.Errorf("document root is not a directory: %s", serverConfig.DocumentRoot)
	}

	Logger.Info("Document root exists", "path", serverConfig.DocumentRoot)
	return nil
}

// objectStoreChecks connects to the configured bucket and serves PDFs from it
func (serverHandler *ServerHandler) objectStoreChecks() error {
	cfg := serverHandler.ServerConfig
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	host, err := bridge.NewObjectStoreHost(ctx, bridge.ObjectStoreConfig{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
	}, serverHandler.DB)
	if err != nil {
		Logger.Error("Object store unavailable", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket, "error", err)
		return err
	}
	serverHandler.UseHost(host)
	return nil
}
