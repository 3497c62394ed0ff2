//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/ai-summarizer/internal/bootstrap"
	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
	"github.com/yanqian/ai-summarizer/internal/infra/config"
	"github.com/yanqian/ai-summarizer/internal/infra/tokenizer"
	httpiface "github.com/yanqian/ai-summarizer/internal/interface/http"
	"github.com/yanqian/ai-summarizer/pkg/logger"
	"github.com/yanqian/ai-summarizer/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.New,
		provideTokenCounter,
		provideModel,
		summarizer.NewService,
		wire.Bind(new(summarizer.TokenCounter), new(*tokenizer.Counter)),
		wire.Bind(new(summarizer.Recorder), new(*metrics.Collector)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
