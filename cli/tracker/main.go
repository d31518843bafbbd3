package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/api"
	"github.com/daniil11ru/tracker/cli/tracker/config"
	"github.com/daniil11ru/tracker/cli/tracker/domain"
	"github.com/daniil11ru/tracker/cli/tracker/source"
	"github.com/daniil11ru/tracker/cli/tracker/source/object/file"
	"github.com/daniil11ru/tracker/cli/tracker/source/object/s3"
	"github.com/daniil11ru/tracker/cli/tracker/storage"
	"github.com/daniil11ru/tracker/cli/tracker/util"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	configFilePath := ""
	flag.StringVar(&configFilePath, "c", "", "")
	flag.Parse()
	config, err := getConfig(configFilePath)
	if err != nil {
		log.Fatalf("Не удалось получить конфиг: %v", err)
		return
	}

	configureLogging(config)

	ctx := context.Background()

	objectSource, err := newObjectSource(ctx, config)
	if err != nil {
		log.Fatalf("Источник данных недоступен: %v", err)
		return
	}

	store, err := storage.LoadCache(config.Store)
	if err != nil {
		log.Fatalf("Не удалось инициализировать кэш: %v", err)
		return
	}
	defer store.Close()

	repository := storage.NewRepository()
	if err := repository.LoadStorages(config.Notify); err != nil {
		log.Fatalf("Не удалось инициализировать хранилища уведомлений: %v", err)
		return
	}
	defer repository.Close()
	notifier := storage.NewAsyncRepository(repository, 16, 1)
	defer notifier.Close()

	refresh := &domain.RefreshDataset{
		Source:   objectSource,
		Bucket:   config.Source.Bucket,
		Key:      config.Source.Key,
		Store:    store,
		Notifier: notifier,
	}
	if err := refresh.Initialize(ctx, config.ReloadCron); err != nil {
		log.Fatalf("Не удалось загрузить набор данных: %v", err)
		return
	}
	defer refresh.Shutdown()

	controller := api.NewController(api.NewHandler(domain.NewQuery(store)), config.AllowedOrigins)
	errs := make(chan error, 1)
	go func() {
		errs <- controller.Run(config.GetListenAddress())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		if err != nil {
			log.Errorf("API остановлен с ошибкой: %v", err)
		}
	case sig := <-stop:
		log.Infof("Получен сигнал %s, завершение работы", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := controller.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Ошибка остановки API: %v", err)
		}
	}
}

func getConfig(configFilePath string) (config.Settings, error) {
	var c config.Settings
	var err error

	if configFilePath == "" {
		return c, &util.ErrorString{S: "не задан путь до конфига"}
	}

	c, err = config.New(configFilePath)
	if err != nil {
		return c, fmt.Errorf("ошибка парсинга конфига: %v", err)
	}

	return c, nil
}

func newObjectSource(ctx context.Context, settings config.Settings) (source.Object, error) {
	switch settings.Source.Kind {
	case config.SourceFile:
		return file.New(settings.Source.Dir), nil
	case config.SourceS3:
		credentials := settings.GetCredentials()
		return s3.New(ctx, s3.Settings{
			Region:    settings.Source.Region,
			Endpoint:  settings.Source.Endpoint,
			AccessKey: credentials.AccessKey,
			SecretKey: credentials.SecretKey,
		})
	default:
		return nil, fmt.Errorf("неизвестный тип источника: %s", settings.Source.Kind)
	}
}

func configureLogging(config config.Settings) {
	log.SetLevel(config.GetLogLevel())

	consoleFmt := &log.TextFormatter{ForceColors: true, FullTimestamp: false}
	log.SetFormatter(consoleFmt)
	log.SetOutput(os.Stdout)

	if config.LogFilePath != "" {
		log.AddHook(newFileHook(config))
	}
}

func newFileHook(config config.Settings) *lfshook.LfsHook {
	logDir := filepath.Dir(config.LogFilePath)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
			log.Fatalf("Не получилось создать директорию для логов: %v", err)
		}
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   config.LogFilePath,
		MaxSize:    100,
		MaxBackups: 366,
		MaxAge:     config.LogMaxAgeDays,
		Compress:   true,
	}

	fileFmt := &log.TextFormatter{DisableColors: true, FullTimestamp: true}
	return lfshook.NewHook(lfshook.WriterMap{
		log.PanicLevel: lumberjackLogger,
		log.FatalLevel: lumberjackLogger,
		log.ErrorLevel: lumberjackLogger,
		log.WarnLevel:  lumberjackLogger,
		log.InfoLevel:  lumberjackLogger,
		log.DebugLevel: lumberjackLogger,
		log.TraceLevel: lumberjackLogger,
	}, fileFmt)
}
