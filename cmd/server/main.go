package main

import (
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/mystical-path/config"
	"github.com/user/mystical-path/internal/game"
	"github.com/user/mystical-path/internal/interfaces"
	"github.com/user/mystical-path/internal/types"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	dataPath := flag.String("data", "", "Path to game data tables (built-in tables when empty)")
	flag.Parse()

	// Set up logger
	logger := setupLogger()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Load game data tables
	board, chanceDeck, penaltyDeck, err := loadGameData(*dataPath, logger)
	if err != nil {
		logger.Fatal("Failed to load game data", zap.Error(err))
	}

	// Initialize the engine
	engine := game.NewEngine(cfg, board, chanceDeck, penaltyDeck, game.NewDiceRoller())
	engine.SetLogger(logger)
	defer engine.Halt()

	// Set up HTTP server for the browser UI
	server := setupHTTPServer(cfg, engine, logger)

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
}

func setupLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

// loadGameData reads the board and card decks from the data directory, or
// falls back to the built-in tables.
func loadGameData(dataPath string, logger *zap.Logger) ([]*types.Square, []types.Card, []types.Card, error) {
	if dataPath == "" {
		logger.Info("Using built-in game data tables")
		return game.DefaultBoard(), game.DefaultChanceCards(), game.DefaultPenaltyCards(), nil
	}

	loader := game.NewDataLoader(dataPath)

	board, err := loader.LoadBoard()
	if err != nil {
		return nil, nil, nil, err
	}
	chanceDeck, err := loader.LoadCards("chance")
	if err != nil {
		return nil, nil, nil, err
	}
	penaltyDeck, err := loader.LoadCards("penalty")
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info("Loaded game data tables",
		zap.Int("squares", len(board)),
		zap.Int("chance_cards", len(chanceDeck)),
		zap.Int("penalty_cards", len(penaltyDeck)))
	return board, chanceDeck, penaltyDeck, nil
}

func setupHTTPServer(cfg config.Config, engine interfaces.GameEngine, logger *zap.Logger) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, engine.Snapshot())
	})

	router.Get("/notifications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, engine.DrainNotifications())
	})

	router.Post("/players", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
			Bot  bool   `json:"bot"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		player, err := engine.AddPlayer(req.Name, req.Bot)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, player)
	})

	router.Post("/start", func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Start(); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	router.Post("/roll", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := engine.RollDice(req.PlayerID); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	router.Post("/decision/property", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
			Accept   bool   `json:"accept"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := engine.PurchaseProperty(req.PlayerID, req.Accept); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	router.Post("/decision/rent", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := engine.PayRent(req.PlayerID); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	router.Post("/decision/shop", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID  string `json:"player_id"`
			ItemIndex int    `json:"item_index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := engine.BuyShopItem(req.PlayerID, req.ItemIndex); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	router.Post("/decision/boss", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
			Fight    bool   `json:"fight"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		var err error
		if req.Fight {
			err = engine.FightBoss(req.PlayerID)
		} else {
			err = engine.FleeBoss(req.PlayerID)
		}
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	router.Post("/decision/slot", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		result, err := engine.SpinSlot(req.PlayerID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, result)
	})

	router.Post("/decision/dismiss", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := engine.DismissDecision(req.PlayerID); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	router.Post("/upgrade", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID   string `json:"player_id"`
			PropertyID string `json:"property_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := engine.UpgradeProperty(req.PlayerID, req.PropertyID); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	router.Post("/alliance", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name      string   `json:"name"`
			MemberIDs []string `json:"member_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		alliance, err := engine.CreateAlliance(req.Name, req.MemberIDs)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, alliance)
	})

	router.Post("/alliance/contribute", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
			Amount   int    `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := engine.ContributeToAlliance(req.PlayerID, req.Amount); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, engine.Snapshot())
	})

	// QR code with the join URL so another local player can open the board
	router.Get("/join/qr", func(w http.ResponseWriter, r *http.Request) {
		png, err := qrcode.Encode(cfg.Server.JoinURL, qrcode.Medium, 256)
		if err != nil {
			logger.Error("Failed to generate join QR code", zap.Error(err))
			http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeEngineError maps engine sentinel errors onto HTTP statuses: missing
// entities are 404, everything else is a gate/precondition conflict.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	if errors.Is(err, game.ErrPlayerNotFound) || errors.Is(err, game.ErrPropertyNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

func waitForShutdown(logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	logger.Info("Shutting down")
}
