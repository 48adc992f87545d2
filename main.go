package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lcv.link/configs"
	"lcv.link/configs/configsdatabase"
	"lcv.link/configs/configslog"
	"lcv.link/routes"
	"lcv.link/services"
)

func main() {
	cfg := configs.LoadConfig()

	configslog.InitLogger()
	defer configslog.SyncLogger()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		AppName:     "lcv.link",
		Views:       engine,
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})

	routes.SetupRoutes(app)

	// Gece yarısı kodu eksik kalmış event/guest kayıtlarını tarar.
	// Kodlar tembel üretildiği için bu tarama bir düzeltme değil,
	// linki hiç istenmemiş kayıtlar için öne alınmış üretimdir.
	scheduler := cron.New()
	codeService := services.NewCodeService()
	_, err := scheduler.AddFunc("0 3 * * *", func() {
		filled, err := codeService.BackfillMissingCodes(context.Background(), 500)
		if err != nil {
			configslog.Log.Error("Kod backfill taraması başarısız", zap.Error(err))
			return
		}
		if filled > 0 {
			configslog.SLog.Infof("Kod backfill taraması tamamlandı: %d kayıt kodlandı", filled)
		}
	})
	if err != nil {
		configslog.Log.Fatal("Cron job kaydedilemedi", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		configslog.SLog.Info("Kapatma sinyali alındı, sunucu durduruluyor...")
		if err := app.Shutdown(); err != nil {
			configslog.Log.Error("Sunucu kapatılırken hata oluştu", zap.Error(err))
		}
	}()

	configslog.SLog.Infof("Sunucu %s adresinde dinliyor", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
	}
}
