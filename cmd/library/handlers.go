package main

import (
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/addbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/addbookedition"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopies"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/definebookdomain"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/extendloan"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/registerbook"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/registerreader"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/removebookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/returnbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/bookstock"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/catalog"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/loansbyreader"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/registeredreaders"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell/observable"
)

// handlers are the observable command and query handlers of all use cases.
type handlers struct {
	registerReader   *observable.CommandWrapper[registerreader.Command]
	defineDomain     *observable.CommandWrapper[definebookdomain.Command]
	registerBook     *observable.CommandWrapper[registerbook.Command]
	addEdition       *observable.CommandWrapper[addbookedition.Command]
	addCopy          *observable.CommandWrapper[addbookcopy.Command]
	removeCopy       *observable.CommandWrapper[removebookcopy.Command]
	borrow           *observable.CommandWrapper[borrowbookcopy.Command]
	borrowMany       *observable.CommandWrapper[borrowbookcopies.Command]
	borrowAtomically *observable.CommandWrapper[borrowbookcopies.AtomicCommand]
	returnCopy       *observable.CommandWrapper[returnbookcopy.Command]
	extend           *observable.CommandWrapper[extendloan.Command]
	loans            *observable.QueryWrapper[loansbyreader.Query, loansbyreader.LoansOfReader]
	stock            *observable.QueryWrapper[bookstock.Query, bookstock.BookStock]
	readers          *observable.QueryWrapper[registeredreaders.Query, registeredreaders.RegisteredReaders]
	books            *observable.QueryWrapper[catalog.Query, catalog.Books]
}

//nolint:funlen
func (a *app) buildHandlers(clock core.Clock) (handlers, error) {
	var (
		h   handlers
		err error
	)

	es := a.store

	if h.registerReader, err = observeCommand[registerreader.Command](a, registerreader.NewCommandHandler(
		es,
		registerreader.WithClock(clock),
		registerreader.WithRetryOptions(a.retryOptions(registerreader.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.defineDomain, err = observeCommand[definebookdomain.Command](a, definebookdomain.NewCommandHandler(
		es,
		definebookdomain.WithClock(clock),
		definebookdomain.WithRetryOptions(a.retryOptions(definebookdomain.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.registerBook, err = observeCommand[registerbook.Command](a, registerbook.NewCommandHandler(
		es,
		a.policy,
		registerbook.WithClock(clock),
		registerbook.WithRetryOptions(a.retryOptions(registerbook.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.addEdition, err = observeCommand[addbookedition.Command](a, addbookedition.NewCommandHandler(
		es,
		addbookedition.WithClock(clock),
		addbookedition.WithRetryOptions(a.retryOptions(addbookedition.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.addCopy, err = observeCommand[addbookcopy.Command](a, addbookcopy.NewCommandHandler(
		es,
		addbookcopy.WithClock(clock),
		addbookcopy.WithRetryOptions(a.retryOptions(addbookcopy.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.removeCopy, err = observeCommand[removebookcopy.Command](a, removebookcopy.NewCommandHandler(
		es,
		removebookcopy.WithClock(clock),
		removebookcopy.WithRetryOptions(a.retryOptions(removebookcopy.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.borrow, err = observeCommand[borrowbookcopy.Command](a, borrowbookcopy.NewCommandHandler(
		es,
		a.policy,
		borrowbookcopy.WithClock(clock),
		borrowbookcopy.WithRetryOptions(a.retryOptions(borrowbookcopy.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.borrowMany, err = observeCommand[borrowbookcopies.Command](a, borrowbookcopies.NewCommandHandler(
		es,
		a.policy,
		borrowbookcopies.WithClock(clock),
		borrowbookcopies.WithRetryOptions(a.retryOptions(borrowbookcopies.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.borrowAtomically, err = observeCommand[borrowbookcopies.AtomicCommand](a, borrowbookcopies.NewAtomicCommandHandler(
		es,
		a.policy,
		borrowbookcopies.WithClock(clock),
		borrowbookcopies.WithRetryOptions(a.retryOptions(borrowbookcopies.AtomicCommand{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.returnCopy, err = observeCommand[returnbookcopy.Command](a, returnbookcopy.NewCommandHandler(
		es,
		returnbookcopy.WithClock(clock),
		returnbookcopy.WithRetryOptions(a.retryOptions(returnbookcopy.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.extend, err = observeCommand[extendloan.Command](a, extendloan.NewCommandHandler(
		es,
		a.policy,
		extendloan.WithClock(clock),
		extendloan.WithRetryOptions(a.retryOptions(extendloan.Command{}.CommandType())...),
	)); err != nil {
		return handlers{}, err
	}

	if h.loans, err = observeQuery[loansbyreader.Query, loansbyreader.LoansOfReader](
		a,
		loansbyreader.NewQueryHandler(es, loansbyreader.WithClock(clock)),
	); err != nil {
		return handlers{}, err
	}

	if h.stock, err = observeQuery[bookstock.Query, bookstock.BookStock](a, bookstock.NewQueryHandler(es)); err != nil {
		return handlers{}, err
	}

	if h.readers, err = observeQuery[registeredreaders.Query, registeredreaders.RegisteredReaders](
		a,
		registeredreaders.NewQueryHandler(es),
	); err != nil {
		return handlers{}, err
	}

	if h.books, err = observeQuery[catalog.Query, catalog.Books](a, catalog.NewQueryHandler(es)); err != nil {
		return handlers{}, err
	}

	return h, nil
}

func (a *app) retryOptions(commandType string) []shell.RetryOption {
	return []shell.RetryOption{shell.WithMetrics(a.metrics, commandType)}
}

func observeCommand[C shell.Command](a *app, handler shell.CoreCommandHandler[C]) (*observable.CommandWrapper[C], error) {
	return observable.NewCommandWrapper[C](
		handler,
		observable.WithCommandMetrics[C](a.metrics),
		observable.WithCommandTracing[C](a.tracing),
		observable.WithCommandContextualLogging[C](a.logger),
	)
}

func observeQuery[Q shell.Query, R shell.QueryResult](a *app, handler shell.CoreQueryHandler[Q, R]) (*observable.QueryWrapper[Q, R], error) {
	return observable.NewQueryWrapper[Q, R](
		handler,
		observable.WithQueryMetrics[Q, R](a.metrics),
		observable.WithQueryTracing[Q, R](a.tracing),
		observable.WithQueryContextualLogging[Q, R](a.logger),
	)
}
