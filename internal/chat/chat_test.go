package chat_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/chat"
)

func TestChat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chat Suite")
}

var _ = Describe("DeriveChannelID", func() {
	It("is commutative over the pair", func() {
		Expect(chat.DeriveChannelID(12, 7)).To(Equal(chat.DeriveChannelID(7, 12)))
	})

	It("puts the smaller id first", func() {
		Expect(chat.DeriveChannelID(12, 7)).To(Equal("dm-7-12"))
	})

	It("separates distinct pairs", func() {
		Expect(chat.DeriveChannelID(1, 2)).ToNot(Equal(chat.DeriveChannelID(1, 3)))
	})
})

var _ = Describe("Token Handler", func() {
	newRequest := func(userID int64, email string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/token", nil)
		ctx := internal.ContextWithUser(req.Context(), &internal.AuthUser{
			ID:    userID,
			Email: email,
			Role:  "employee",
		})
		return req.WithContext(ctx)
	}

	It("upserts the provider user before returning the token", func() {
		var upserted map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/users"))
			Expect(json.NewDecoder(r.Body).Decode(&upserted)).To(Succeed())
			w.WriteHeader(http.StatusOK)
		}))
		DeferCleanup(server.Close)

		client := chat.NewClient(chat.Config{
			APIURL:    server.URL,
			APIKey:    "test-key",
			APISecret: "test-secret",
		}, slog.Default())
		DeferCleanup(client.Shutdown)
		handler := chat.NewHandler(client)

		rec := httptest.NewRecorder()
		handler.GetToken(rec, newRequest(42, "mira@example.com"))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(upserted["user_id"]).To(Equal("42"))
		Expect(upserted["email"]).To(Equal("mira@example.com"))

		var resp chat.TokenResponse
		Expect(json.NewDecoder(rec.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Token).ToNot(BeEmpty())
		Expect(resp.UserID).To(Equal(int64(42)))
	})

	It("withholds the token when the upsert fails", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		DeferCleanup(server.Close)

		client := chat.NewClient(chat.Config{
			APIURL:    server.URL,
			APIKey:    "test-key",
			APISecret: "test-secret",
		}, slog.Default())
		DeferCleanup(client.Shutdown)
		handler := chat.NewHandler(client)

		rec := httptest.NewRecorder()
		handler.GetToken(rec, newRequest(42, "mira@example.com"))

		Expect(rec.Code).To(Equal(http.StatusBadGateway))
		Expect(rec.Body.String()).ToNot(ContainSubstring("token"))
	})

	It("rejects an unauthenticated request", func() {
		client := chat.NewClient(chat.Config{
			APIURL:    "http://unused",
			APIKey:    "test-key",
			APISecret: "test-secret",
		}, slog.Default())
		DeferCleanup(client.Shutdown)
		handler := chat.NewHandler(client)

		rec := httptest.NewRecorder()
		handler.GetToken(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat/token", nil))

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("Chat Client", func() {
	newClient := func(apiURL string) *chat.Client {
		client := chat.NewClient(chat.Config{
			APIURL:    apiURL,
			APIKey:    "test-key",
			APISecret: "test-secret",
			TokenTTL:  30 * time.Minute,
			Timeout:   2 * time.Second,
		}, slog.Default())
		DeferCleanup(client.Shutdown)
		return client
	}

	Describe("MintUserToken", func() {
		It("signs a token carrying the user id and a bounded lifetime", func() {
			client := newClient("http://unused")

			resp, err := client.MintUserToken(42)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.UserID).To(Equal(int64(42)))
			Expect(resp.ExpiresIn).To(Equal(int64(1800)))

			parsed, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
				return []byte("test-secret"), nil
			})
			Expect(err).ToNot(HaveOccurred())
			claims := parsed.Claims.(jwt.MapClaims)
			Expect(claims["user_id"]).To(Equal("42"))
		})
	})

	Describe("EnsureUser", func() {
		It("upserts the user record on the provider", func() {
			var got map[string]interface{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/users"))
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer test-key"))
				Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
				w.WriteHeader(http.StatusOK)
			}))
			DeferCleanup(server.Close)
			client := newClient(server.URL)

			err := client.EnsureUser(context.Background(), chat.SyncJob{
				UserID: 42,
				Name:   "mira@example.com",
				Email:  "mira@example.com",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(got["user_id"]).To(Equal("42"))
			Expect(got["email"]).To(Equal("mira@example.com"))
		})

		It("surfaces provider failures", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			DeferCleanup(server.Close)
			client := newClient(server.URL)

			err := client.EnsureUser(context.Background(), chat.SyncJob{UserID: 42})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Shutdown", func() {
		It("returns cleanly immediately after construction", func() {
			client := chat.NewClient(chat.Config{
				APIURL:    "http://unused",
				APIKey:    "test-key",
				APISecret: "test-secret",
			}, slog.Default())

			done := make(chan struct{})
			go func() {
				client.Shutdown()
				close(done)
			}()

			Eventually(done, time.Second).Should(BeClosed())
		})
	})

	Describe("EnsureChannel", func() {
		It("creates the channel on the provider", func() {
			var got map[string]interface{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/channels"))
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer test-key"))
				Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
				w.WriteHeader(http.StatusCreated)
			}))
			DeferCleanup(server.Close)
			client := newClient(server.URL)

			channel, err := client.EnsureChannel(context.Background(), 12, 7)

			Expect(err).ToNot(HaveOccurred())
			Expect(channel.ID).To(Equal("dm-7-12"))
			Expect(got["channel_id"]).To(Equal("dm-7-12"))
		})

		It("refuses a channel with yourself", func() {
			client := newClient("http://unused")

			_, err := client.EnsureChannel(context.Background(), 7, 7)

			Expect(err).To(MatchError(chat.ErrSelfChannel))
		})

		It("surfaces provider failures", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			DeferCleanup(server.Close)
			client := newClient(server.URL)

			_, err := client.EnsureChannel(context.Background(), 1, 2)

			Expect(err).To(HaveOccurred())
		})
	})
})
