package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chirper/app/auth"
	"chirper/app/controllers"
	"chirper/app/middleware"
	"chirper/app/repositories"
	"chirper/app/services"
)

// methodNotAllowed answers requests that hit a known path with an
// unsupported method. Registered on every (sub)router because mux does
// not propagate a subrouter's method mismatch to the parent.
var methodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]string{"error": "method not allowed"})
})

// SetupRoutes wires the services over the given repositories and
// returns the API router.
func SetupRoutes(postRepo repositories.PostRepository, userRepo repositories.UserRepository, sessions *auth.SessionResolver) *mux.Router {
	feed := services.NewFeedService(postRepo, userRepo)
	posts := services.NewPostService(postRepo, feed)
	interactions := services.NewInteractionService(postRepo, feed)
	users := services.NewUserService(userRepo)

	postController := controllers.NewPostController(posts, feed)
	interactionController := controllers.NewInteractionController(interactions, feed)
	userController := controllers.NewUserController(users, sessions)
	sessionController := controllers.NewSessionController(users, sessions)

	router := mux.NewRouter()
	router.MethodNotAllowedHandler = methodNotAllowed

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	api := router.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = methodNotAllowed
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.WithUser(sessions))

	// Posts and the feed
	apiPosts := api.PathPrefix("/posts").Subrouter()
	apiPosts.MethodNotAllowedHandler = methodNotAllowed
	apiPosts.HandleFunc("", postController.Index).Methods("GET")
	apiPosts.HandleFunc("", postController.Create).Methods("POST")
	apiPosts.HandleFunc("/{id}", postController.Show).Methods("GET")
	apiPosts.HandleFunc("/{id}", postController.Edit).Methods("PUT")
	apiPosts.HandleFunc("/{id}", postController.Delete).Methods("DELETE")

	// Interactions
	apiPosts.HandleFunc("/{id}/like", interactionController.Like).Methods("POST")
	apiPosts.HandleFunc("/{id}/repost", interactionController.Repost).Methods("POST")
	apiPosts.HandleFunc("/{id}/comments", interactionController.ListComments).Methods("GET")
	apiPosts.HandleFunc("/{id}/comments", interactionController.CreateComment).Methods("POST")

	// Accounts and sessions
	api.HandleFunc("/users", userController.Create).Methods("POST")
	api.HandleFunc("/users/{id}", userController.Show).Methods("GET")
	api.HandleFunc("/users/{id}/image", userController.UpdateImage).Methods("PUT")
	api.HandleFunc("/session", sessionController.Create).Methods("POST")
	api.HandleFunc("/session", sessionController.Show).Methods("GET")
	api.HandleFunc("/session", sessionController.Delete).Methods("DELETE")

	return router
}
