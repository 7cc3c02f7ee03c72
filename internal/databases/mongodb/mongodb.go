// Package mongodb implements the bench.Adapter contract against MongoDB,
// storing each generated document directly (plus a harness-derived _id)
// in a single collection.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/dbutils"
	"github.com/surrealdb/crud-bench/internal/docker"
	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

const (
	defaultImage = "mongo:7"
	defaultPort  = "27017"

	databaseName        = "bench"
	collectionName      = "bench_collection"
	containerNamePrefix = "crud-bench-mongodb"
)

// Adapter implements bench.Adapter for MongoDB.
type Adapter struct {
	bench.UnsupportedBatches

	client    *mongo.Client
	coll      *mongo.Collection
	container *docker.Container
}

// New creates an unconnected MongoDB adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string   { return "mongodb" }
func (a *Adapter) Blocking() bool { return false }

func (a *Adapter) Startup(ctx context.Context, tmpl *values.Template, cfg bench.StartupConfig) error {
	image := cfg.Image
	if image == "" {
		image = defaultImage
	}

	uri := cfg.Endpoint
	if uri == "" {
		container, err := startContainer(ctx, image, cfg.Privileged)
		if err != nil {
			return fmt.Errorf("failed to start mongodb container: %w", err)
		}
		a.container = container
		uri = "mongodb://localhost:" + defaultPort
	}

	opts := options.Client().ApplyURI(uri)
	if cfg.Sync {
		opts = opts.SetWriteConcern(writeconcern.Majority())
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	a.client = client
	a.coll = client.Database(databaseName).Collection(collectionName)
	return nil
}

func (a *Adapter) Shutdown(ctx context.Context) error {
	var err error
	if a.client != nil {
		err = a.client.Disconnect(ctx)
	}
	if a.container != nil {
		if serr := a.container.Stop(ctx); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func (a *Adapter) Create(ctx context.Context, key keys.Key, value []byte) (time.Duration, error) {
	doc, err := documentFor(key, value)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	_, err = a.coll.InsertOne(ctx, doc)
	return time.Since(start), err
}

func (a *Adapter) Read(ctx context.Context, key keys.Key) (time.Duration, bool, error) {
	start := time.Now()
	err := a.coll.FindOne(ctx, bson.M{"_id": key.String()}).Err()
	elapsed := time.Since(start)
	if err == mongo.ErrNoDocuments {
		return elapsed, false, nil
	}
	if err != nil {
		return elapsed, false, err
	}
	return elapsed, true, nil
}

func (a *Adapter) Update(ctx context.Context, key keys.Key, value []byte) (time.Duration, error) {
	doc, err := documentFor(key, value)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	_, err = a.coll.ReplaceOne(ctx, bson.M{"_id": key.String()}, doc)
	return time.Since(start), err
}

func (a *Adapter) Delete(ctx context.Context, key keys.Key) (time.Duration, error) {
	start := time.Now()
	_, err := a.coll.DeleteOne(ctx, bson.M{"_id": key.String()})
	return time.Since(start), err
}

func (a *Adapter) Scan(ctx context.Context, d bench.ScanDescriptor) (time.Duration, int, error) {
	start := time.Now()

	if d.Projection == bench.ProjectionCount {
		n, err := a.coll.CountDocuments(ctx, bson.M{})
		return time.Since(start), int(n), err
	}

	findOpts := options.Find()
	if d.Projection == bench.ProjectionID {
		findOpts.SetProjection(bson.M{"_id": 1})
	}
	if d.Limit > 0 {
		findOpts.SetLimit(int64(d.Limit))
	}
	if d.Start > 0 {
		findOpts.SetSkip(int64(d.Start))
	}

	cur, err := a.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return time.Since(start), 0, err
	}
	defer cur.Close(ctx)

	count := 0
	for cur.Next(ctx) {
		count++
	}
	return time.Since(start), count, cur.Err()
}

func documentFor(key keys.Key, value []byte) (bson.M, error) {
	var fields bson.M
	if err := bson.UnmarshalExtJSON(value, false, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode generated value as JSON: %w", err)
	}
	fields["_id"] = key.String()
	return fields, nil
}

func startContainer(ctx context.Context, image string, privileged bool) (*docker.Container, error) {
	containerName := fmt.Sprintf("%s-%d", containerNamePrefix, time.Now().UnixNano())
	ports := map[string]string{"27017/tcp": defaultPort}

	container, err := dbutils.CreateContainerWithRetry(ctx, containerName, image, ports, privileged, nil)
	if err != nil {
		return nil, err
	}

	checkFunc := func(ctx context.Context) error {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:"+defaultPort))
		if err != nil {
			return err
		}
		defer client.Disconnect(ctx)
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(ctx, nil)
	}

	if err := container.WaitForHealthy(ctx, 90*time.Second, checkFunc); err != nil {
		_ = container.Stop(ctx)
		return nil, fmt.Errorf("mongodb health check failed: %w", err)
	}
	return container, nil
}
