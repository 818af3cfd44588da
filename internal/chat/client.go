package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peopleops/hr-platform/internal"
)

// SyncJob mirrors a user profile to the messaging provider so the directory
// there stays in step with ours. Failures are retried by resubmission, not
// queued forever.
type SyncJob struct {
	UserID int64
	Name   string
	Email  string
}

type Worker struct {
	ID         int
	WorkerPool chan chan SyncJob
	JobChannel chan SyncJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan SyncJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan SyncJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(SyncJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("chat worker processing sync", "worker_id", w.ID, "user_id", job.UserID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("chat worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	APIURL    string
	APIKey    string
	APISecret string
	TokenTTL  time.Duration
	Timeout   time.Duration

	MaxWorkers   int
	JobQueueSize int
}

// Client talks to the external messaging provider: it mints connection
// tokens locally (HMAC over the provider secret), creates channels
// synchronously, and pushes user-profile syncs through a small worker pool.
type Client struct {
	apiURL    string
	apiKey    string
	apiSecret []byte
	tokenTTL  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
	http      *http.Client

	jobQueue   chan SyncJob
	workerPool chan chan SyncJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewClient(config Config, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tokenTTL := config.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}

	client := &Client{
		apiURL:    config.APIURL,
		apiKey:    config.APIKey,
		apiSecret: []byte(config.APISecret),
		tokenTTL:  tokenTTL,
		timeout:   timeout,
		logger:    logger,
		http:      &http.Client{Timeout: timeout},

		maxWorkers: maxWorkers,
		jobQueue:   make(chan SyncJob, jobQueueSize),
		workerPool: make(chan chan SyncJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {
		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processSyncJob)
		}

		c.wg.Add(1)
		go c.dispatch()

		c.logger.Info("chat sync worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	defer c.wg.Done()

	for {
		select {
		case job := <-c.jobQueue:
			select {
			case jobChannel := <-c.workerPool:
				select {
				case jobChannel <- job:
				case <-c.ctx.Done():
					return
				}
			case <-c.ctx.Done():
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down chat client")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("chat client shutdown complete")
}

// MintUserToken issues the short-lived token the front end presents to the
// provider. Signed locally with the provider secret, no network round trip.
func (c *Client) MintUserToken(userID int64) (*TokenResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": fmt.Sprintf("%d", userID),
		"iat":     now.Unix(),
		"exp":     now.Add(c.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.apiSecret)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign chat token", err)
	}

	return &TokenResponse{
		Token:     token,
		UserID:    userID,
		ExpiresIn: int64(c.tokenTTL.Seconds()),
	}, nil
}

// EnsureChannel creates the direct-message channel for the pair on the
// provider. Creation is idempotent on the provider side, so calling it for
// an existing channel just returns it.
func (c *Client) EnsureChannel(ctx context.Context, a, b int64) (*Channel, error) {
	if a == b {
		return nil, ErrSelfChannel
	}

	channel := &Channel{
		ID:      DeriveChannelID(a, b),
		Members: []int64{a, b},
	}

	payload := map[string]interface{}{
		"channel_id": channel.ID,
		"members":    []string{fmt.Sprintf("%d", a), fmt.Sprintf("%d", b)},
	}
	if err := c.post(ctx, "/channels", payload); err != nil {
		c.logger.Error("chat channel creation failed", "channel_id", channel.ID, "error", err)
		return nil, internal.NewExternalError("failed to create chat channel", internal.ErrCodeChatProvider, err)
	}

	return channel, nil
}

// EnsureUser upserts the user record on the provider. Token issuance calls
// this synchronously so the provider always knows a user before the front end
// connects with their token.
func (c *Client) EnsureUser(ctx context.Context, job SyncJob) error {
	payload := map[string]interface{}{
		"user_id": fmt.Sprintf("%d", job.UserID),
		"name":    job.Name,
		"email":   job.Email,
	}

	if err := c.post(ctx, "/users", payload); err != nil {
		c.logger.Error("chat user upsert failed", "user_id", job.UserID, "error", err)
		return internal.NewExternalError("failed to upsert chat user", internal.ErrCodeChatProvider, err)
	}
	return nil
}

// SyncUser queues a profile upsert to the provider. Non-blocking: a full
// queue drops the sync and logs, the next profile change or token request
// will requeue it.
func (c *Client) SyncUser(job SyncJob) {
	select {
	case c.jobQueue <- job:
	default:
		c.logger.Warn("chat sync queue full, dropping sync", "user_id", job.UserID)
	}
}

func (c *Client) processSyncJob(job SyncJob) {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	if err := c.EnsureUser(ctx, job); err != nil {
		return
	}
	c.logger.Debug("chat user synced", "user_id", job.UserID)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return nil
}
