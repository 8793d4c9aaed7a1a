package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"apparel-catalog/internal/models"
	"apparel-catalog/internal/store"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// CredentialRepository stores the accounts of one namespace. Email
// uniqueness is enforced by the store; the lookup before insert only gives a
// friendlier error in the common case.
type CredentialRepository struct {
	ns         models.Namespace
	collection store.Collection
	hasher     PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialRepository(ns models.Namespace, db store.Database, hasher PasswordHasher) *CredentialRepository {
	return &CredentialRepository{
		ns:         ns,
		collection: db.Collection(ns.Collection),
		hasher:     hasher,
	}
}

func (r *CredentialRepository) Namespace() models.Namespace { return r.ns }

// Register hashes password and stores a new account. The plaintext is never
// persisted.
func (r *CredentialRepository) Register(ctx context.Context, name, email, password string) (*models.Credential, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, invalid("", "All fields are required")
	}
	if len(password) > maxPasswordBytes {
		return nil, invalid("password", "Password is too long")
	}

	_, err := r.collection.FindOne(ctx, bson.M{"email": email})
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, store.ErrNoDocument):
		return nil, &StoreError{Op: "Error registering " + r.ns.Name, Err: err}
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	created := time.Now().UTC()
	id, err := r.collection.InsertOne(ctx, bson.M{
		"name":          name,
		"email":         email,
		"password_hash": hash,
		"created_at":    created,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, &StoreError{Op: "Error registering " + r.ns.Name, Err: err}
	}
	return &models.Credential{
		ID:           id.Hex(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    created,
	}, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a
// wrong password alike. Unknown emails still pay for one hash comparison.
func (r *CredentialRepository) Authenticate(ctx context.Context, email, password string) (*models.Credential, error) {
	doc, err := r.collection.FindOne(ctx, bson.M{"email": strings.TrimSpace(email)})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			r.hasher.Compare(r.dummy(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, &StoreError{Op: "Error authenticating " + r.ns.Name, Err: err}
	}

	cred := decodeCredential(doc)
	if cred.PasswordHash == "" || !r.hasher.Compare(cred.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return cred, nil
}

func (r *CredentialRepository) dummy() string {
	r.dummyOnce.Do(func() {
		r.dummyHash, _ = r.hasher.Hash("not-a-real-password")
	})
	return r.dummyHash
}

func decodeCredential(doc bson.M) *models.Credential {
	c := &models.Credential{}
	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		c.ID = id.Hex()
	}
	c.Name, _ = doc["name"].(string)
	c.Email, _ = doc["email"].(string)
	c.PasswordHash, _ = doc["password_hash"].(string)
	if dt, ok := doc["created_at"].(primitive.DateTime); ok {
		c.CreatedAt = dt.Time().UTC()
	}
	return c
}
