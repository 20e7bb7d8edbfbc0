// Package devserver is an in-memory stand-in for the habit-tracking backend.
// It serves the same REST surface the client consumes, for demos and tests.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/milestone"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/validation"
)

// Config configures a Server.
type Config struct {
	// Secret signs and verifies HS256 tokens.
	Secret string
	// Users restricts logins to these email/password pairs. Empty accepts any
	// well-formed credentials.
	Users map[string]string
	// Now overrides the clock used for token timestamps.
	Now func() time.Time
}

// Server holds the routes and the in-memory data.
type Server struct {
	secret []byte
	users  map[string]string
	now    func() time.Time
	store  *store
	engine *gin.Engine

	encouragements []models.Encouragement
	tips           map[constants.Category][]models.Tip
	affirmations   []models.Affirmation
}

func New(cfg Config) *Server {
	secret := cfg.Secret
	if secret == "" {
		secret = constants.DefaultDevServerSecret
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	users := make(map[string]string, len(cfg.Users))
	for email, password := range cfg.Users {
		users[strings.ToLower(email)] = password
	}

	s := &Server{
		secret:         []byte(secret),
		users:          users,
		now:            now,
		store:          newStore(),
		encouragements: defaultEncouragements(),
		tips:           defaultTips(),
		affirmations:   defaultAffirmations(),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.POST("/auth/login", s.login)
	r.POST(constants.RegisterResource, s.register)

	api := r.Group("/")
	api.Use(s.requireAuth())
	{
		api.GET("/water_logs", s.listWater)
		api.POST("/water_logs", s.createWater)
		api.POST("/water", s.createWater)
		api.DELETE("/water_logs/:id", s.deleteLog(constants.CategoryWater))

		api.GET("/sleep_logs", s.listSleep)
		api.POST("/sleep_logs", s.createSleep)
		api.DELETE("/sleep_logs/:id", s.deleteLog(constants.CategorySleep))

		api.GET("/exercise_logs", s.listExercise)
		api.POST("/exercise_logs", s.createExercise)
		api.DELETE("/exercise_logs/:id", s.deleteLog(constants.CategoryExercise))

		api.GET("/food_logs", s.listFood)
		api.POST("/food_logs", s.createFood)
		api.DELETE("/food_logs/:id", s.deleteLog(constants.CategoryFood))

		api.GET("/health_info", s.getHealthInfo)
		api.POST("/health_info", s.saveHealthInfo)
		api.PUT("/health_info/:id", s.saveHealthInfo)

		api.GET("/encouragements", s.listEncouragements)
		api.GET("/health_tips/category/:category", s.listTips)
		api.GET("/affirmations", s.listAffirmations)

		api.GET("/recipes", s.listRecipes)
		api.GET("/recipes/:id", s.getRecipe)
		api.POST("/recipes", s.createRecipe)
		api.PUT("/recipes/:id", s.updateRecipe)
		api.DELETE("/recipes/:id", s.deleteRecipe)
	}

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("dev server request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader(constants.RequestIDHeader),
			"duration", time.Since(start),
		)
	}
}

// bind decodes and validates a JSON body, writing a 400 on failure.
func bind[T any](c *gin.Context) (T, bool) {
	var input T
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return input, false
	}
	if err := validation.Check(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return input, false
	}
	return input, true
}

func bindFilter(c *gin.Context) (dateFilter, bool) {
	var f dateFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return f, false
	}
	return f, true
}

func (s *Server) listWater(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.waterDays(callerEmail(c), f))
}

func (s *Server) createWater(c *gin.Context) {
	input, ok := bind[models.WaterLogInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.store.addWater(callerEmail(c), input))
}

func (s *Server) listSleep(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.sleepLogs(callerEmail(c), f))
}

func (s *Server) createSleep(c *gin.Context) {
	input, ok := bind[models.SleepLogInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.store.addSleep(callerEmail(c), input))
}

func (s *Server) listExercise(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.exerciseLogs(callerEmail(c), f))
}

func (s *Server) createExercise(c *gin.Context) {
	input, ok := bind[models.ExerciseLogInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.store.addExercise(callerEmail(c), input))
}

func (s *Server) listFood(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.foodLogs(callerEmail(c), f))
}

func (s *Server) createFood(c *gin.Context) {
	input, ok := bind[models.FoodLogInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.store.addFood(callerEmail(c), input))
}

func (s *Server) deleteLog(category constants.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.store.remove(callerEmail(c), category, c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"message": category.Title() + " log not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// getHealthInfo returns a list with zero or one row, as the backend does.
func (s *Server) getHealthInfo(c *gin.Context) {
	rows := []models.HealthInfo{}
	if h := s.store.healthInfo(callerEmail(c)); h != nil {
		rows = append(rows, *h)
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) saveHealthInfo(c *gin.Context) {
	input, ok := bind[models.HealthInfo](c)
	if !ok {
		return
	}
	saved, ok := s.store.saveHealthInfo(callerEmail(c), c.Param("id"), input)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Health info not found"})
		return
	}
	status := http.StatusCreated
	if c.Request.Method == http.MethodPut {
		status = http.StatusOK
	}
	c.JSON(status, saved)
}

func (s *Server) listEncouragements(c *gin.Context) {
	category := strings.ToLower(c.Query("category"))
	out := make([]models.Encouragement, 0, len(s.encouragements))
	for _, e := range s.encouragements {
		if category == "" || strings.ToLower(e.Category) == category {
			out = append(out, e)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listTips(c *gin.Context) {
	category, ok := constants.ParseCategory(strings.ToLower(c.Param("category")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unknown category"})
		return
	}
	c.JSON(http.StatusOK, s.tips[category])
}

func (s *Server) listAffirmations(c *gin.Context) {
	c.JSON(http.StatusOK, s.affirmations)
}

func (s *Server) listRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listRecipes())
}

func (s *Server) getRecipe(c *gin.Context) {
	rec, ok := s.store.recipe(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) createRecipe(c *gin.Context) {
	input, ok := bind[models.RecipeInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.store.addRecipe(callerEmail(c), input, s.stamp()))
}

func (s *Server) updateRecipe(c *gin.Context) {
	input, ok := bind[models.RecipeInput](c)
	if !ok {
		return
	}
	if !s.ownsRecipe(c) {
		return
	}
	rec, ok := s.store.updateRecipe(c.Param("id"), input, s.stamp())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) deleteRecipe(c *gin.Context) {
	if !s.ownsRecipe(c) {
		return
	}
	if !s.store.removeRecipe(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}

// ownsRecipe writes a 404 or 403 unless the caller created the recipe.
func (s *Server) ownsRecipe(c *gin.Context) bool {
	owner, found := s.store.recipeOwner(callerEmail(c), c.Param("id"))
	switch {
	case !found:
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return false
	case !owner:
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only change recipes you created"})
		return false
	}
	return true
}

func (s *Server) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// defaultEncouragements mirrors the built-in milestone rules with the
// backend's capitalized category names.
func defaultEncouragements() []models.Encouragement {
	rules := milestone.DefaultRules()
	out := make([]models.Encouragement, 0, len(rules))
	for _, r := range rules {
		out = append(out, models.Encouragement{
			Category:  r.Category.Title(),
			Milestone: r.Key,
			Message:   r.Message,
		})
	}
	return out
}

func defaultTips() map[constants.Category][]models.Tip {
	return map[constants.Category][]models.Tip{
		constants.CategoryWater: {
			{Tip: "Keep a bottle within reach while you work."},
			{Tip: "Drink a glass of water with every meal."},
		},
		constants.CategorySleep: {
			{Tip: "Go to bed and wake up at the same time every day."},
			{Content: "Dim screens an hour before bed."},
		},
		constants.CategoryExercise: {
			{Tip: "A brisk ten-minute walk counts."},
			{Tip: "Warm up before strength training."},
		},
		constants.CategoryFood: {
			{Tip: "Fill half your plate with vegetables."},
			{Message: "Protein at breakfast keeps you full longer."},
		},
	}
}

func defaultAffirmations() []models.Affirmation {
	return []models.Affirmation{
		{Message: "Small steps still move you forward."},
		{Message: "You are allowed to rest."},
		{Message: "Today is a good day to take care of yourself."},
	}
}
