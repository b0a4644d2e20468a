package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mselser95/bracket-arb/internal/kalshi"
)

func TestPostgresSink_LogOpportunity_InsertsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sink := &PostgresSink{db: db}
	opp := testOpportunity()

	mock.ExpectExec("INSERT INTO opportunities").
		WithArgs(opp.ID, opp.EventTicker, "LONG", len(opp.Brackets),
			opp.SumCents, opp.TotalFeesCents, opp.NetProfitCents, sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := sink.LogOpportunity(context.Background(), opp, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresSink_LogOpportunity_PropagatesExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sink := &PostgresSink{db: db}
	opp := testOpportunity()

	mock.ExpectExec("INSERT INTO opportunities").
		WillReturnError(sqlmock.ErrCancelled)

	if err := sink.LogOpportunity(context.Background(), opp, true); err == nil {
		t.Fatal("expected an error")
	}
}

func TestPostgresSink_LogTrade_InsertsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sink := &PostgresSink{db: db}
	opp := testOpportunity()
	order := kalshi.Order{OrderID: "ord-1", Status: kalshi.StatusExecuted, YesPrice: kalshi.Int64Ptr(30)}

	mock.ExpectExec("INSERT INTO trades").
		WithArgs(opp.ID, opp.EventTicker, "A", "ord-1", kalshi.StatusExecuted, int64(30), int64(10)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := sink.LogTrade(context.Background(), opp, "A", order, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresSink_Close_ClosesConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	mock.ExpectClose()

	sink := &PostgresSink{db: db}
	if err := sink.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
