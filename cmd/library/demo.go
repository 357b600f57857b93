package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/addbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/addbookedition"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopies"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/definebookdomain"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/extendloan"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/registerbook"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/registerreader"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/returnbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const outcomeOK = "OK"

// ErrDemoOutcomeMismatch is returned when a demo step did not end as expected.
var ErrDemoOutcomeMismatch = errors.New("demo step ended unexpectedly")

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed a small library and walk through the lending rules",
		Long: "Seed a small library with fresh ids and run six scenarios against the selected store:\n" +
			"a plain borrow, the stock floor, the staff daily limit, the staff re-borrow interval,\n" +
			"the domain diversity of bulk borrows and the extension cap.\n" +
			"A fixed clock starting at the current time drives all steps.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDemo(cmd.Context(), a)
			if err != nil {
				return err
			}

			return d.run()
		},
	}
}

// demoStep is one printed outcome of the demo.
type demoStep struct {
	Scenario string `json:"scenario"`
	Step     string `json:"step"`
	Expected string `json:"expected"`
	Outcome  string `json:"outcome"`
}

// demo seeds entities through the command handlers. The first failure of a seeding step sticks
// in err and turns all later seeding into no-ops.
type demo struct {
	ctx   context.Context
	a     *app
	h     handlers
	clock *core.FixedClock
	steps []demoStep
	err   error
}

func newDemo(ctx context.Context, a *app) (*demo, error) {
	clock := core.NewFixedClock(time.Now().UTC())

	h, err := a.buildHandlers(clock)
	if err != nil {
		return nil, err
	}

	return &demo{ctx: ctx, a: a, h: h, clock: clock}, nil
}

func (d *demo) run() error {
	scenarios := []func(){
		d.plainBorrow,
		d.stockFloor,
		d.staffDailyLimit,
		d.staffReborrowInterval,
		d.bulkBorrowDiversity,
		d.extensionCap,
	}

	for _, scenario := range scenarios {
		scenario()

		if d.err != nil {
			return fmt.Errorf("seeding the demo library failed: %w", d.err)
		}
	}

	mismatches := 0

	for _, step := range d.steps {
		if step.Outcome != step.Expected {
			mismatches++
		}

		if err := d.a.print(step); err != nil {
			return err
		}
	}

	if mismatches > 0 {
		return fmt.Errorf("%w: %d of %d steps", ErrDemoOutcomeMismatch, mismatches, len(d.steps))
	}

	return nil
}

func (d *demo) plainBorrow() {
	const scenario = "plain borrow"

	readerID := d.reader(core.ReaderKindStandard)
	_, copyIDs := d.bookWithCopies(1, d.domain(uuid.Nil, "Fiction"))

	d.expect(scenario, "reader borrows the only copy", "", d.borrow(readerID, copyIDs[0]))
}

func (d *demo) stockFloor() {
	const scenario = "stock floor"

	_, copyIDs := d.bookWithCopies(11, d.domain(uuid.Nil, "Reference"))

	for _, copyID := range copyIDs[:10] {
		d.seed(d.borrow(d.reader(core.ReaderKindStandard), copyID))
	}

	d.expect(scenario, "borrow the last available of 11 copies", core.KindStockTooLow, d.borrow(d.reader(core.ReaderKindStandard), copyIDs[10]))
}

func (d *demo) staffDailyLimit() {
	const scenario = "staff daily limit"

	standardID := d.reader(core.ReaderKindStandard)
	staffID := d.reader(core.ReaderKindStaff)

	var copyIDs [][]uuid.UUID
	for _, name := range []string{"History", "Geography", "Music"} {
		_, ids := d.bookWithCopies(2, d.domain(uuid.Nil, name))
		copyIDs = append(copyIDs, ids)
	}

	if d.err != nil {
		return
	}

	d.seed(d.borrow(standardID, copyIDs[0][0]))
	d.seed(d.borrow(standardID, copyIDs[1][0]))
	d.expect(scenario, "standard reader borrows a third book today", core.KindDailyLimit, d.borrow(standardID, copyIDs[2][0]))

	d.seed(d.borrow(staffID, copyIDs[0][1]))
	d.seed(d.borrow(staffID, copyIDs[1][1]))
	d.expect(scenario, "staff member borrows a third book today", "", d.borrow(staffID, copyIDs[2][1]))
}

func (d *demo) staffReborrowInterval() {
	const scenario = "staff re-borrow interval"

	staffID := d.reader(core.ReaderKindStaff)
	_, copyIDs := d.bookWithCopies(2, d.domain(uuid.Nil, "Philosophy"))

	if d.err != nil {
		return
	}

	loanID := d.borrowLoan(staffID, copyIDs[0])
	d.clock.Advance(time.Hour)
	d.seed(d.returnLoan(loanID))

	d.clock.Advance(core.Days(44))
	d.expect(scenario, "borrow the same book 44 days later", core.KindReborrowTooSoon, d.borrow(staffID, copyIDs[1]))

	d.clock.Advance(core.Days(2))
	d.expect(scenario, "borrow the same book 46 days later", "", d.borrow(staffID, copyIDs[1]))
}

func (d *demo) bulkBorrowDiversity() {
	const scenario = "bulk borrow diversity"

	readerID := d.reader(core.ReaderKindStandard)
	staffID := d.reader(core.ReaderKindStaff)
	science := d.domain(uuid.Nil, "Science")
	art := d.domain(uuid.Nil, "Art")

	_, first := d.bookWithCopies(1, science)
	_, second := d.bookWithCopies(1, science)
	_, third := d.bookWithCopies(1, science)
	_, fourth := d.bookWithCopies(1, art)

	if d.err != nil {
		return
	}

	_, err := d.h.borrowMany.Handle(d.ctx, borrowbookcopies.BuildCommand(readerID, uuid.Nil, first[0], second[0], third[0]))
	d.expect(scenario, "three copies from one domain", core.KindInsufficientCategories, err)

	_, err = d.h.borrowAtomically.Handle(d.ctx, borrowbookcopies.BuildAtomicCommand(staffID, uuid.Nil, first[0], second[0], fourth[0]))
	d.expect(scenario, "three copies from two domains, atomically", "", err)
}

func (d *demo) extensionCap() {
	const scenario = "extension cap"

	readerID := d.reader(core.ReaderKindStandard)
	_, copyIDs := d.bookWithCopies(1, d.domain(uuid.Nil, "Poetry"))

	if d.err != nil {
		return
	}

	loanID := d.borrowLoan(readerID, copyIDs[0])
	d.expect(scenario, "extend by 20 days", "", d.extend(loanID, 20))
	d.expect(scenario, "extend by 10 more days", "", d.extend(loanID, 10))
	d.expect(scenario, "extend by 1 more day", core.KindExtensionLimit, d.extend(loanID, 1))
}

func (d *demo) expect(scenario string, step string, expected core.ErrorKind, err error) {
	if d.err != nil {
		return
	}

	outcome := outcomeOK
	if err != nil {
		outcome = string(core.KindOf(err))
		if outcome == "" {
			d.err = err
			return
		}
	}

	if expected == "" {
		expected = outcomeOK
	}

	d.steps = append(d.steps, demoStep{Scenario: scenario, Step: step, Expected: string(expected), Outcome: outcome})
}

func (d *demo) seed(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *demo) reader(kind core.ReaderKind) uuid.UUID {
	readerID := uuid.New()
	details := core.ReaderDetails{
		FirstName: "Demo",
		LastName:  "Reader",
		Address:   "1 Library Lane",
		Email:     "reader-" + readerID.String()[:8] + "@example.org",
	}

	if d.err == nil {
		_, err := d.h.registerReader.Handle(d.ctx, registerreader.BuildCommand(readerID, details, kind))
		d.seed(err)
	}

	return readerID
}

func (d *demo) domain(parentID uuid.UUID, name string) uuid.UUID {
	domainID := uuid.New()

	if d.err == nil {
		_, err := d.h.defineDomain.Handle(d.ctx, definebookdomain.BuildCommand(domainID, parentID, name))
		d.seed(err)
	}

	return domainID
}

func (d *demo) bookWithCopies(n int, domainIDs ...uuid.UUID) (uuid.UUID, []uuid.UUID) {
	bookID := uuid.New()
	editionID := uuid.New()
	copyIDs := make([]uuid.UUID, n)

	for i := range copyIDs {
		copyIDs[i] = uuid.New()
	}

	if d.err != nil {
		return bookID, copyIDs
	}

	domains := make([]core.DomainIDString, 0, len(domainIDs))
	for _, domainID := range domainIDs {
		domains = append(domains, domainID.String())
	}

	authors := []core.Author{{FirstName: "Eric", LastName: "Evans"}}
	_, err := d.h.registerBook.Handle(d.ctx, registerbook.BuildCommand(bookID, "Domain-Driven Design", authors, domains...))
	d.seed(err)

	details := core.EditionDetails{Publisher: "Addison-Wesley", Year: 2003, EditionNumber: 1, NumberOfPages: 560, BookType: "Hardcover"}
	_, err = d.h.addEdition.Handle(d.ctx, addbookedition.BuildCommand(editionID, bookID, details))
	d.seed(err)

	for _, copyID := range copyIDs {
		_, err = d.h.addCopy.Handle(d.ctx, addbookcopy.BuildCommand(copyID, editionID, false))
		d.seed(err)
	}

	return bookID, copyIDs
}

func (d *demo) borrow(readerID uuid.UUID, copyID uuid.UUID) error {
	_, err := d.borrowWithLoanID(readerID, copyID)

	return err
}

func (d *demo) borrowLoan(readerID uuid.UUID, copyID uuid.UUID) uuid.UUID {
	loanID, err := d.borrowWithLoanID(readerID, copyID)
	d.seed(err)

	return loanID
}

func (d *demo) borrowWithLoanID(readerID uuid.UUID, copyID uuid.UUID) (uuid.UUID, error) {
	command := borrowbookcopy.BuildCommand(readerID, copyID, uuid.Nil)

	if _, err := d.h.borrow.Handle(d.ctx, command); err != nil {
		return uuid.Nil, err
	}

	return uuid.MustParse(command.LoanID), nil
}

func (d *demo) returnLoan(loanID uuid.UUID) error {
	_, err := d.h.returnCopy.Handle(d.ctx, returnbookcopy.BuildCommand(loanID))

	return err
}

func (d *demo) extend(loanID uuid.UUID, days int) error {
	_, err := d.h.extend.Handle(d.ctx, extendloan.BuildCommand(loanID, days))

	return err
}
