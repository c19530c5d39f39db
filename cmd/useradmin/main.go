package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/coderTechJordan/UserService-Backend/internal/backup"
	"github.com/coderTechJordan/UserService-Backend/internal/config"
	"github.com/coderTechJordan/UserService-Backend/internal/identity"
	"github.com/coderTechJordan/UserService-Backend/internal/store"
)

const usage = `Usage: useradmin <command> [flags]

Commands:
  put        write one record directly into the table (bypasses validation)
  delete     remove one record by id
  export     scan the table and upload a JSON snapshot to S3
  snapshots  list uploaded snapshots

These commands talk straight to the store and are operator tooling only;
they are not part of the service's public contract.`

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "put":
		cmdErr = runPut(ctx, cfg, os.Args[2:])
	case "delete":
		cmdErr = runDelete(ctx, cfg, os.Args[2:])
	case "export":
		cmdErr = runExport(ctx, cfg, logger, os.Args[2:])
	case "snapshots":
		cmdErr = runSnapshots(ctx, cfg, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	if cmdErr != nil {
		logger.Fatalf("%s: %v", os.Args[1], cmdErr)
	}
}

func runPut(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	id := fs.String("id", "", "user id (generated when empty)")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password (stored as a bcrypt hash)")
	email := fs.String("email", "", "email")
	createdAt := fs.String("created-at", "", "creation timestamp (generated when empty)")
	fs.Parse(args)

	gen := identity.Generator{}
	if *id == "" {
		*id = gen.NewID()
	}
	if *createdAt == "" {
		*createdAt = gen.Now()
	}

	attrs := map[string]string{}
	set := func(name, value string) {
		if value != "" {
			attrs[name] = value
		}
	}
	set("firstName", *firstName)
	set("lastName", *lastName)
	set("username", *username)
	set("email", *email)
	set("createdAt", *createdAt)
	if *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		attrs["passwordHash"] = string(hash)
	}

	st, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := st.Put(ctx, cfg.Store.Table, *id, attrs); err != nil {
		return err
	}
	fmt.Printf("put %s into %s\n", *id, cfg.Store.Table)
	return nil
}

func runDelete(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "user id")
	fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	st, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := st.Delete(ctx, cfg.Store.Table, *id); err != nil {
		return err
	}
	fmt.Printf("deleted %s from %s\n", *id, cfg.Store.Table)
	return nil
}

func runExport(ctx context.Context, cfg config.Config, logger *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	bucket := fs.String("bucket", cfg.Backup.Bucket, "destination s3 bucket")
	prefix := fs.String("prefix", cfg.Backup.KeyPrefix, "key prefix for the snapshot object")
	fs.Parse(args)

	st, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := st.Scan(ctx, cfg.Store.Table)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	exporter, err := buildExporter(ctx, cfg)
	if err != nil {
		return err
	}

	location, err := exporter.UploadSnapshot(ctx, *bucket, *prefix, data)
	if err != nil {
		return err
	}
	logger.Infof("exported %d records to %s", len(records), location)
	return nil
}

func runSnapshots(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("snapshots", flag.ExitOnError)
	bucket := fs.String("bucket", cfg.Backup.Bucket, "s3 bucket to list")
	prefix := fs.String("prefix", cfg.Backup.KeyPrefix, "key prefix filter")
	fs.Parse(args)

	exporter, err := buildExporter(ctx, cfg)
	if err != nil {
		return err
	}

	snapshots, err := exporter.ListSnapshots(ctx, *bucket, *prefix)
	if err != nil {
		return err
	}
	for _, snap := range snapshots {
		fmt.Printf("%s\t%d bytes\n", snap.Key, snap.Size)
	}
	return nil
}

func buildStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case "dynamo":
		awsCfg, err := loadAWSConfig(ctx, cfg, cfg.Store.Region)
		if err != nil {
			return nil, nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.Store.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Store.Endpoint)
			}
		})
		return store.NewDynamoStore(client), noop, nil

	case "sqlite":
		st, err := store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := st.Init(ctx, cfg.Store.Table); err != nil {
			st.Close()
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil

	case "memory":
		return nil, nil, fmt.Errorf("memory backend has no durable table to administer")

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func buildExporter(ctx context.Context, cfg config.Config) (*backup.Exporter, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg, cfg.Backup.Region)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Backup.Endpoint)
			o.UsePathStyle = true
		}
	})
	return backup.NewExporter(client), nil
}

func loadAWSConfig(ctx context.Context, cfg config.Config, region string) (aws.Config, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}
