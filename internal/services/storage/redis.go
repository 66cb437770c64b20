package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rina-librarian-go/internal/config"
	"github.com/rina-librarian-go/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Key layout:
//
//	user:next                counter
//	user:name:<username>     username -> user id
//	user:<id>                user record json
//	session:next             counter
//	session:<id>             session record json
//	user_sessions:<userID>   zset of session ids scored by creation time
//	messages:<sessionID>     list of message json, append-only
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStore(cfg *config.Config, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Storage.Redis.Addr,
		Password: cfg.Storage.Redis.Password,
		DB:       cfg.Storage.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		logger: logger,
	}, nil
}

func (r *RedisStore) CreateUser(ctx context.Context, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := r.client.Incr(ctx, "user:next").Result()
	if err != nil {
		return 0, err
	}

	// The name index is the uniqueness guard
	ok, err := r.client.SetNX(ctx, fmt.Sprintf("user:name:%s", username), id, 0).Result()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrUserExists
	}

	user := models.User{ID: id, Username: username, Password: string(hash)}
	data, err := json.Marshal(user)
	if err != nil {
		return 0, err
	}

	if err := r.client.Set(ctx, fmt.Sprintf("user:%d", id), data, 0).Err(); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *RedisStore) ValidateUser(ctx context.Context, username, password string) (int64, error) {
	id, err := r.client.Get(ctx, fmt.Sprintf("user:name:%s", username)).Int64()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	data, err := r.client.Get(ctx, fmt.Sprintf("user:%d", id)).Result()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return 0, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return 0, ErrNotFound
	}

	return user.ID, nil
}

func (r *RedisStore) CreateSession(ctx context.Context, userID int64, title string) (int64, error) {
	id, err := r.client.Incr(ctx, "session:next").Result()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	if title == "" {
		title = fmt.Sprintf("Chat %d", now.Unix())
	}

	session := models.Session{ID: id, UserID: userID, Title: title, CreatedAt: now}
	data, err := json.Marshal(session)
	if err != nil {
		return 0, err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf("session:%d", id), data, 0)
	pipe.ZAdd(ctx, fmt.Sprintf("user_sessions:%d", userID), &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: id,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *RedisStore) LatestSession(ctx context.Context, userID int64) (int64, error) {
	ids, err := r.client.ZRevRange(ctx, fmt.Sprintf("user_sessions:%d", userID), 0, 0).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}

	var id int64
	if _, err := fmt.Sscanf(ids[0], "%d", &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *RedisStore) Sessions(ctx context.Context, userID int64) ([]models.Session, error) {
	ids, err := r.client.ZRevRange(ctx, fmt.Sprintf("user_sessions:%d", userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0, len(ids))
	for _, idStr := range ids {
		data, err := r.client.Get(ctx, fmt.Sprintf("session:%s", idStr)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}

		var session models.Session
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (r *RedisStore) RenameSession(ctx context.Context, sessionID int64, title string) error {
	session, err := r.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	session.Title = title
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, fmt.Sprintf("session:%d", sessionID), data, 0).Err()
}

func (r *RedisStore) DeleteSession(ctx context.Context, sessionID int64) error {
	session, err := r.getSession(ctx, sessionID)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	// Messages are owned by the session and go with it
	pipe := r.client.Pipeline()
	pipe.Del(ctx, fmt.Sprintf("messages:%d", sessionID))
	pipe.Del(ctx, fmt.Sprintf("session:%d", sessionID))
	pipe.ZRem(ctx, fmt.Sprintf("user_sessions:%d", session.UserID), sessionID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return r.client.RPush(ctx, fmt.Sprintf("messages:%d", msg.SessionID), data).Err()
}

func (r *RedisStore) MessagesFor(ctx context.Context, sessionID int64) ([]models.Message, error) {
	entries, err := r.client.LRange(ctx, fmt.Sprintf("messages:%d", sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(entries))
	for _, entry := range entries {
		var msg models.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func (r *RedisStore) getSession(ctx context.Context, sessionID int64) (*models.Session, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf("session:%d", sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}
