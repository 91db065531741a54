package mediator

import (
	"errors"
	"fmt"

	"github.com/hatchgrid/go-dispatch/eventbus"
	"github.com/hatchgrid/go-dispatch/logger"
	"github.com/hatchgrid/go-dispatch/message"
	"github.com/hatchgrid/go-dispatch/provider"
)

// Option configures a Builder.
type Option func(*Builder)

// WithProvider sets the DependencyProvider the Builder resolves
// Bindings, Behaviors and the default publish Strategy from,
// in addition to the ones registered explicitly.
func WithProvider(p provider.DependencyProvider) Option {
	return func(b *Builder) { b.provider = p }
}

// WithLogger sets the Logger used by the Builder.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// Builder assembles the routing table of a Mediator.
//
// A Builder can only be built once.
type Builder struct {
	provider provider.DependencyProvider
	logger   logger.Logger

	bindings  []Binding
	behaviors []Behavior
	strategy  eventbus.Strategy
	bus       *eventbus.Bus
	built     bool
}

// NewBuilder returns a new Builder.
func NewBuilder(opts ...Option) *Builder {
	b := new(Builder)

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Register adds the Bindings to the Mediator.
func (b *Builder) Register(bindings ...Binding) *Builder {
	b.bindings = append(b.bindings, bindings...)
	return b
}

// WithBehaviors appends the Behaviors to the pipeline wrapped around every dispatch.
func (b *Builder) WithBehaviors(behaviors ...Behavior) *Builder {
	b.behaviors = append(b.behaviors, behaviors...)
	return b
}

// WithPublishStrategy records the default Strategy used by Mediator.Publish
// and by the Broadcasters created with NewBroadcaster or PublisherFor
// when none is explicitly supplied.
//
// If unset, the one declared in the DependencyProvider under PublishStrategyKey
// is used, then the default Strategy of the attached Bus, falling back
// to eventbus.StopOnError.
func (b *Builder) WithPublishStrategy(strategy eventbus.Strategy) *Builder {
	b.strategy = strategy
	return b
}

// WithEventBus attaches the Bus Events are published to.
func (b *Builder) WithEventBus(bus *eventbus.Bus) *Builder {
	b.bus = bus
	return b
}

// Build returns the Mediator, or all the configuration errors found.
//
// Two Bindings for the same Message are always an error wrapping
// ErrDuplicateHandler: no Binding ever overrides another one.
func (b *Builder) Build() (*Mediator, error) {
	if b.built {
		return nil, ErrBuilderAlreadyUsed
	}

	b.built = true

	bindings, behaviors, strategy, err := b.resolve()
	if err != nil {
		return nil, fmt.Errorf("mediator.Builder: failed to resolve dependencies: %w", err)
	}

	m := &Mediator{
		commands:  make(map[string]Binding),
		queries:   make(map[string]Binding),
		behaviors: behaviors,
		strategy:  strategy,
		bus:       b.bus,
	}

	var errs []error

	for i, binding := range bindings {
		if !binding.valid() {
			errs = append(errs, fmt.Errorf("%w: binding #%d", ErrInvalidBinding, i))
			continue
		}

		table := m.queries
		if binding.family() == message.KindCommand {
			table = m.commands
		}

		if _, ok := table[binding.name]; ok {
			errs = append(errs, fmt.Errorf("%w: %s '%s' bound more than once", ErrDuplicateHandler, binding.family(), binding.name))
			continue
		}

		table[binding.name] = binding
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error(b.logger, "Mediator configuration is invalid", logger.Err(err))
		return nil, err
	}

	logger.Info(b.logger, "Mediator built",
		logger.With("commands", len(m.commands)),
		logger.With("queries", len(m.queries)),
		logger.With("behaviors", len(m.behaviors)),
		logger.With("publish_strategy", fmt.Sprint(m.strategy)),
	)

	return m, nil
}

func (b *Builder) resolve() ([]Binding, []Behavior, eventbus.Strategy, error) {
	bindings := append([]Binding(nil), b.bindings...)
	behaviors := append([]Behavior(nil), b.behaviors...)
	strategy := b.strategy

	if b.provider != nil {
		provided, err := provider.InstancesOfType[Binding](b.provider, BindingsKey)
		if err != nil {
			return nil, nil, nil, err
		}

		providedBehaviors, err := provider.InstancesOfType[Behavior](b.provider, BehaviorsKey)
		if err != nil {
			return nil, nil, nil, err
		}

		bindings = append(bindings, provided...)
		behaviors = append(behaviors, providedBehaviors...)

		if strategy == nil {
			if strategy, err = providedStrategy(b.provider); err != nil {
				return nil, nil, nil, err
			}
		}
	}

	if strategy == nil && b.bus != nil {
		strategy = b.bus.DefaultStrategy()
	}

	if strategy == nil {
		strategy = eventbus.StopOnError{}
	}

	return bindings, behaviors, strategy, nil
}

func providedStrategy(p provider.DependencyProvider) (eventbus.Strategy, error) {
	instance, err := p.SingleInstanceOf(PublishStrategyKey)
	if errors.Is(err, provider.ErrDependencyNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	strategy, ok := instance.(eventbus.Strategy)
	if !ok {
		return nil, fmt.Errorf("provider: instance of '%s' is %T, expected eventbus.Strategy", PublishStrategyKey, instance)
	}

	return strategy, nil
}
