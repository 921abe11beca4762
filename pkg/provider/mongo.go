package provider

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/orbitviz/orbit/pkg/errors"
	"github.com/orbitviz/orbit/pkg/graph"
)

// Mongo fetches inventory neighborhoods from MongoDB collections, one for
// nodes and one for edges. The traversal runs server-side as one edge
// query per hop ($in on the frontier), so only the requested neighborhood
// is ever transferred.
type Mongo struct {
	client *mongo.Client
	nodes  *mongo.Collection
	edges  *mongo.Collection
}

// MongoConfig configures the MongoDB connection and collection names.
type MongoConfig struct {
	URI            string
	Database       string
	NodeCollection string // defaults to "nodes"
	EdgeCollection string // defaults to "edges"
}

// mongoNode is the node document shape in the inventory database.
type mongoNode struct {
	ID      string `bson:"id"`
	Name    string `bson:"name"`
	Type    string `bson:"type"`
	Service string `bson:"service"`
}

// mongoEdge is the edge document shape in the inventory database.
type mongoEdge struct {
	Source       string `bson:"source"`
	Target       string `bson:"target"`
	Relationship string `bson:"relationship"`
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.NodeCollection == "" {
		cfg.NodeCollection = "nodes"
	}
	if cfg.EdgeCollection == "" {
		cfg.EdgeCollection = "edges"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	return &Mongo{
		client: client,
		nodes:  db.Collection(cfg.NodeCollection),
		edges:  db.Collection(cfg.EdgeCollection),
	}, nil
}

// Fetch walks the edge collection outward from resourceID, one query per
// hop, then loads the node documents for everything reached.
func (m *Mongo) Fetch(ctx context.Context, resourceID string, depth int) (graph.Graph, error) {
	if err := validate(resourceID, depth); err != nil {
		return graph.Graph{}, err
	}

	if err := m.nodes.FindOne(ctx, bson.M{"id": resourceID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return graph.Graph{}, errors.New(errors.ErrCodeResourceNotFound, "resource %q not in inventory", resourceID)
		}
		return graph.Graph{}, fmt.Errorf("look up resource %q: %w", resourceID, err)
	}

	keep := map[string]bool{resourceID: true}
	frontier := []string{resourceID}
	var edges []mongoEdge

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		filter := bson.M{"$or": []bson.M{
			{"source": bson.M{"$in": frontier}},
			{"target": bson.M{"$in": frontier}},
		}}
		cursor, err := m.edges.Find(ctx, filter)
		if err != nil {
			return graph.Graph{}, fmt.Errorf("query edges at hop %d: %w", hop+1, err)
		}

		var batch []mongoEdge
		if err := cursor.All(ctx, &batch); err != nil {
			return graph.Graph{}, fmt.Errorf("decode edges at hop %d: %w", hop+1, err)
		}

		var next []string
		for _, e := range batch {
			edges = append(edges, e)
			for _, id := range []string{e.Source, e.Target} {
				if !keep[id] {
					keep[id] = true
					next = append(next, id)
				}
			}
		}
		frontier = next
	}

	ids := make([]string, 0, len(keep))
	for id := range keep {
		ids = append(ids, id)
	}
	cursor, err := m.nodes.Find(ctx, bson.M{"id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return graph.Graph{}, fmt.Errorf("query nodes: %w", err)
	}
	var nodeDocs []mongoNode
	if err := cursor.All(ctx, &nodeDocs); err != nil {
		return graph.Graph{}, fmt.Errorf("decode nodes: %w", err)
	}

	p := payload{
		Nodes: make([]payloadNode, 0, len(nodeDocs)),
		Edges: make([]payloadEdge, 0, len(edges)),
	}
	for _, n := range nodeDocs {
		p.Nodes = append(p.Nodes, payloadNode{ID: n.ID, Name: n.Name, Type: n.Type, Service: n.Service})
	}
	for _, e := range edges {
		p.Edges = append(p.Edges, payloadEdge{Source: e.Source, Target: e.Target, Relationship: e.Relationship})
	}

	return toGraph(p), nil
}

// Close disconnects the underlying MongoDB client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ensure Mongo implements Provider.
var _ Provider = (*Mongo)(nil)
