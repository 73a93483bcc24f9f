package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	songsCollection     = "songs"
	playlistsCollection = "playlists"
	countersCollection  = "counters"
)

// MongoStore implements [Store] on a MongoDB database.
//
// Documents use the integer id as _id. The counters collection holds one {_id: collection, seq: n}
// document per entity, advanced atomically with $inc.
type MongoStore struct {
	client    *mongo.Client
	songs     *mongo.Collection
	playlists *mongo.Collection
	counters  *mongo.Collection
}

// NewMongoStore connects to uri, verifies the connection and ensures indexes on the named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: mongo_uri is empty", shared.ErrInvalidConfig)
	}
	if database == "" {
		database = "catalog"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	store := &MongoStore{
		client:    client,
		songs:     db.Collection(songsCollection),
		playlists: db.Collection(playlistsCollection),
		counters:  db.Collection(countersCollection),
	}

	_, err = store.playlists.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create playlist name index: %w", err)
	}

	return store, nil
}

// Songs implements [Store].
func (s *MongoStore) Songs() models.SongRepository { return &mongoSongs{s} }

// Playlists implements [Store].
func (s *MongoStore) Playlists() models.PlaylistRepository { return &mongoPlaylists{s} }

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes every collection the store owns. Used to reset test databases.
func (s *MongoStore) Drop(ctx context.Context) error {
	for _, c := range []*mongo.Collection{s.songs, s.playlists, s.counters} {
		if err := c.Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", c.Name(), err)
		}
	}
	return nil
}

// Seed implements [Store].
func (s *MongoStore) Seed(ctx context.Context, songs []models.Song, playlists []models.Playlist) error {
	count, err := s.songs.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to count songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	if len(songs) > 0 {
		docs := make([]any, 0, len(songs))
		for _, song := range songs {
			docs = append(docs, song)
		}
		if _, err := s.songs.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to seed songs: %w", err)
		}
	}

	if len(playlists) > 0 {
		docs := make([]any, 0, len(playlists))
		for _, p := range playlists {
			docs = append(docs, p.Clone())
		}
		if _, err := s.playlists.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to seed playlists: %w", err)
		}
	}

	maxSong, maxPlaylist := maxIDs(songs, playlists)
	if err := s.raiseCounter(ctx, songsCollection, maxSong); err != nil {
		return err
	}
	return s.raiseCounter(ctx, playlistsCollection, maxPlaylist)
}

// nextID atomically increments and returns the counter for collection.
func (s *MongoStore) nextID(ctx context.Context, collection string) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}

	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		incrementCounter(),
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s counter: %w", collection, err)
	}

	return counter.Seq, nil
}

// raiseCounter moves the counter for collection up to at least value.
func (s *MongoStore) raiseCounter(ctx context.Context, collection string, value int) error {
	_, err := s.counters.UpdateOne(ctx,
		bson.M{"_id": collection},
		raiseCounterTo(value),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to raise %s counter: %w", collection, err)
	}
	return nil
}

func incrementCounter() bson.M {
	return bson.M{"$inc": bson.M{"seq": 1}}
}

// raiseCounterTo never lowers a counter, so seeding twice cannot reuse ids.
func raiseCounterTo(value int) bson.M {
	return bson.M{"$max": bson.M{"seq": value}}
}

func setSongFields(song *models.Song) bson.M {
	return bson.M{"$set": bson.M{"title": song.Title, "artist": song.Artist}}
}

// appendSongDocs matches the playlist only while songID is absent, so the membership check and the push
// are one atomic update.
func appendSongDocs(playlistID, songID int) (filter, update bson.M) {
	filter = bson.M{"_id": playlistID, "songIds": bson.M{"$ne": songID}}
	update = bson.M{"$push": bson.M{"songIds": songID}}
	return filter, update
}

var sortByID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

type mongoSongs struct{ s *MongoStore }

func (r *mongoSongs) List(ctx context.Context) ([]models.Song, error) {
	cursor, err := r.s.songs.Find(ctx, bson.D{}, sortByID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}

	songs := []models.Song{}
	if err := cursor.All(ctx, &songs); err != nil {
		return nil, fmt.Errorf("failed to decode songs: %w", err)
	}
	return songs, nil
}

func (r *mongoSongs) Get(ctx context.Context, id int) (*models.Song, error) {
	var song models.Song

	err := r.s.songs.FindOne(ctx, bson.M{"_id": id}).Decode(&song)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, songNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode song: %w", err)
	}
	return &song, nil
}

func (r *mongoSongs) Create(ctx context.Context, song *models.Song) error {
	id, err := r.s.nextID(ctx, songsCollection)
	if err != nil {
		return err
	}

	song.ID = id
	if _, err := r.s.songs.InsertOne(ctx, song); err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}
	return nil
}

func (r *mongoSongs) Update(ctx context.Context, song *models.Song) error {
	result, err := r.s.songs.UpdateOne(ctx,
		bson.M{"_id": song.ID},
		setSongFields(song),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}
	if result.MatchedCount == 0 {
		return songNotFound(song.ID)
	}
	return nil
}

func (r *mongoSongs) Delete(ctx context.Context, id int) error {
	result, err := r.s.songs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if result.DeletedCount == 0 {
		return songNotFound(id)
	}
	return nil
}

type mongoPlaylists struct{ s *MongoStore }

func (r *mongoPlaylists) List(ctx context.Context) ([]models.Playlist, error) {
	cursor, err := r.s.playlists.Find(ctx, bson.D{}, sortByID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	playlists := []models.Playlist{}
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists: %w", err)
	}

	for i := range playlists {
		playlists[i] = playlists[i].Clone()
	}
	return playlists, nil
}

func (r *mongoPlaylists) Get(ctx context.Context, id int) (*models.Playlist, error) {
	var p models.Playlist

	err := r.s.playlists.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, playlistNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode playlist: %w", err)
	}

	p = p.Clone()
	return &p, nil
}

func (r *mongoPlaylists) Create(ctx context.Context, playlist *models.Playlist) error {
	id, err := r.s.nextID(ctx, playlistsCollection)
	if err != nil {
		return err
	}

	playlist.ID = id
	playlist.SongIDs = []int{}

	if _, err := r.s.playlists.InsertOne(ctx, playlist); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: playlist %q already exists", shared.ErrConflict, playlist.Name)
		}
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

func (r *mongoPlaylists) AppendSong(ctx context.Context, playlistID, songID int) error {
	if _, err := r.Get(ctx, playlistID); err != nil {
		return err
	}
	if _, err := r.s.Songs().Get(ctx, songID); err != nil {
		return err
	}

	filter, update := appendSongDocs(playlistID, songID)
	result, err := r.s.playlists.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append song: %w", err)
	}
	if result.MatchedCount == 0 {
		return alreadyMember(playlistID, songID)
	}
	return nil
}
