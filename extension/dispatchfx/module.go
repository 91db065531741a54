// Package dispatchfx wires the dispatch core into a go.uber.org/fx application.
//
// The host application contributes its Bindings, Behaviors and Subscriptions
// to the fx value groups named by BindingsGroup, BehaviorsGroup and
// SubscriptionsGroup, usually through AsBinding, AsBehavior and
// AsSubscription, and gets a ready *mediator.Mediator and *eventbus.Bus back.
package dispatchfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hatchgrid/go-dispatch/config"
	"github.com/hatchgrid/go-dispatch/eventbus"
	"github.com/hatchgrid/go-dispatch/extension/zaplogger"
	"github.com/hatchgrid/go-dispatch/logger"
	"github.com/hatchgrid/go-dispatch/mediator"
	"github.com/hatchgrid/go-dispatch/provider"
)

// Names of the fx value groups the host application contributes to.
const (
	BindingsGroup      = "dispatch.bindings"
	BehaviorsGroup     = "dispatch.behaviors"
	SubscriptionsGroup = "dispatch.subscriptions"
)

// Module returns the fx module providing the dispatch core, configured with cfg.
//
// mediator.RecoverBehavior is always installed as the innermost Behavior,
// so that a panicking Handler surfaces as an execution error.
func Module(cfg *config.Config) fx.Option {
	return fx.Module("dispatch",
		fx.Supply(cfg),
		fx.Provide(
			provideZapLogger,
			provideLogger,
			provideStrategy,
			provideDependencies,
			provideEventBus,
			provideMediator,
		),
	)
}

// AsBinding annotates a constructor of mediator.Binding to contribute
// to the BindingsGroup.
func AsBinding(constructor any) any {
	return fx.Annotate(constructor, fx.ResultTags(`group:"`+BindingsGroup+`"`))
}

// AsBehavior annotates a constructor of mediator.Behavior to contribute
// to the BehaviorsGroup.
//
// The order of Behaviors contributed by different constructors is unspecified:
// use AsBehaviors when the order matters.
func AsBehavior(constructor any) any {
	return fx.Annotate(constructor, fx.ResultTags(`group:"`+BehaviorsGroup+`"`))
}

// AsBehaviors annotates a constructor of []mediator.Behavior to contribute
// all of them, in order, to the BehaviorsGroup.
func AsBehaviors(constructor any) any {
	return fx.Annotate(constructor, fx.ResultTags(`group:"`+BehaviorsGroup+`,flatten"`))
}

// AsSubscription annotates a constructor of eventbus.Subscription to contribute
// to the SubscriptionsGroup.
//
// The order of Subscriptions contributed by different constructors is unspecified:
// use AsSubscriptions when the delivery order matters.
func AsSubscription(constructor any) any {
	return fx.Annotate(constructor, fx.ResultTags(`group:"`+SubscriptionsGroup+`"`))
}

// AsSubscriptions annotates a constructor of []eventbus.Subscription to contribute
// all of them, in order, to the SubscriptionsGroup.
func AsSubscriptions(constructor any) any {
	return fx.Annotate(constructor, fx.ResultTags(`group:"`+SubscriptionsGroup+`,flatten"`))
}

func provideZapLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	l, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			//nolint:errcheck // Syncing stderr fails on some platforms, nothing to do about it.
			l.Sync()
			return nil
		},
	})

	return l, nil
}

func provideLogger(l *zap.Logger) logger.Logger {
	return zaplogger.Wrap(l)
}

func provideStrategy(cfg *config.Config, l logger.Logger) (eventbus.Strategy, error) {
	return cfg.Strategy(l)
}

// Dependencies are the values contributed by the host application
// to the dispatch value groups.
type Dependencies struct {
	fx.In

	Bindings      []mediator.Binding      `group:"dispatch.bindings"`
	Behaviors     []mediator.Behavior     `group:"dispatch.behaviors"`
	Subscriptions []eventbus.Subscription `group:"dispatch.subscriptions"`
}

func provideDependencies(deps Dependencies, strategy eventbus.Strategy) provider.DependencyProvider {
	return provider.NewRegistry().
		Provide(mediator.BindingsKey, instances(deps.Bindings)...).
		Provide(mediator.BehaviorsKey, append(instances(deps.Behaviors), mediator.RecoverBehavior())...).
		Provide(eventbus.SubscriptionsKey, instances(deps.Subscriptions)...).
		Provide(mediator.PublishStrategyKey, strategy)
}

func provideEventBus(
	deps provider.DependencyProvider,
	strategy eventbus.Strategy,
	l logger.Logger,
) (*eventbus.Bus, error) {
	return eventbus.FromProvider(deps,
		eventbus.WithDefaultStrategy(strategy),
		eventbus.WithLogger(l),
	)
}

func provideMediator(
	deps provider.DependencyProvider,
	bus *eventbus.Bus,
	l logger.Logger,
) (*mediator.Mediator, error) {
	return mediator.NewBuilder(mediator.WithProvider(deps), mediator.WithLogger(l)).
		WithEventBus(bus).
		Build()
}

func instances[T any](values []T) []any {
	result := make([]any, 0, len(values))
	for _, v := range values {
		result = append(result, v)
	}

	return result
}
