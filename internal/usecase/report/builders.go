package report

import (
	"sort"
	"strconv"
	"time"

	"loan-backoffice/internal/domain/cashflow"
	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/document"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/transaction"
	"loan-backoffice/internal/timeutil"
	"loan-backoffice/pkg/money"
)

// Builders are pure: they take already-scoped rows and reduce them. Every
// slice they return is non-nil so empty results encode as [].

func buildActiveLoans(loans []loanrequest.LoanRequest) *ActiveLoans {
	out := &ActiveLoans{Kind: KindActiveLoans, Blocks: make([]StatusBlock, 0, len(loanrequest.OpenStatuses))}
	idx := make(map[loanrequest.Status]int, len(loanrequest.OpenStatuses))
	for _, s := range loanrequest.OpenStatuses {
		idx[s] = len(out.Blocks)
		out.Blocks = append(out.Blocks, StatusBlock{Status: s})
	}
	for i := range loans {
		l := &loans[i]
		j, ok := idx[l.Status]
		if !ok {
			continue
		}
		out.Blocks[j].Count++
		out.Blocks[j].Outstanding += l.Balance()
		out.Totals.Count++
		out.Totals.Outstanding += l.Balance()
	}
	for j := range out.Blocks {
		out.Blocks[j].Percentage = money.Percent(int64(out.Blocks[j].Count), int64(out.Totals.Count))
	}
	return out
}

// buildOverdueLoans keeps FUNDED requests due before today that still owe money.
func buildOverdueLoans(cal *timeutil.Calendar, loans []loanrequest.LoanRequest, clientNames map[uint64]string) *OverdueLoans {
	today := cal.Today()
	out := &OverdueLoans{Kind: KindOverdueLoans, Date: today, Loans: []OverdueLoan{}}
	now := cal.Now()
	for i := range loans {
		l := &loans[i]
		due := cal.DayOf(l.EndDateAt)
		if l.Status != loanrequest.StatusFunded || due >= today || l.Balance() <= 0 {
			continue
		}
		out.Loans = append(out.Loans, OverdueLoan{
			LoanRequestID: l.ID,
			ClientID:      l.ClientID,
			ClientName:    clientNames[l.ClientID],
			AgentID:       l.AgentID,
			DueDate:       due,
			EndDateAt:     l.EndDateAt,
			LoanAmount:    l.Amount,
			TotalRepaid:   l.AmountPaid,
			PendingAmount: l.Balance(),
			DaysMora:      cal.DaysBetween(l.EndDateAt, now),
		})
		out.Totals.Count++
		out.Totals.PendingAmount += l.Balance()
	}
	sort.SliceStable(out.Loans, func(i, j int) bool { return out.Loans[i].DaysMora > out.Loans[j].DaysMora })
	return out
}

// branchInput is everything one branch contributes to branch-statistics.
type branchInput struct {
	branch        identity.Branch
	ledger        []transaction.Transaction
	funded        []loanrequest.LoanRequest
	activeClients int
	overdue       []loanrequest.LoanRequest
}

func buildBranchStats(cal *timeutil.Calendar, in branchInput) BranchStats {
	st := BranchStats{BranchID: in.branch.ID, BranchName: in.branch.Name, ActiveClients: in.activeClients}
	for _, t := range in.ledger {
		switch t.Type {
		case transaction.TypeDisbursement:
			st.AmountDisbursed += t.Amount
		case transaction.TypeRepayment:
			st.AmountRepaid += t.Amount
			st.AmountCollected += t.Amount
		case transaction.TypePenalty:
			st.AmountCollected += t.Amount
		case transaction.TypeRenewal:
			st.AmountRenewed += t.Amount
		}
	}
	for i := range in.funded {
		if in.funded[i].FundedAt != nil {
			st.PrincipalLoaned += in.funded[i].RequestedAmount
		}
	}
	overdue := buildOverdueLoans(cal, in.overdue, nil)
	st.OverdueLoans = overdue.Totals.Count
	st.OverdueAmount = overdue.Totals.PendingAmount
	st.NetFlow = st.AmountCollected - st.AmountDisbursed
	return st
}

func buildBranchStatistics(stats []BranchStats) *BranchStatistics {
	out := &BranchStatistics{Kind: KindBranchStatistics, Branches: make([]BranchStats, 0, len(stats))}
	for _, s := range stats {
		out.Branches = append(out.Branches, s)
		out.Totals.add(s)
	}
	return out
}

// buildAgentActivity counts per agent. created are requests opened in range,
// funded are requests funded in range, ledger holds repayments and penalties
// in range and agentOf maps their loan request to its agent.
func buildAgentActivity(agents []identity.User, created, funded []loanrequest.LoanRequest,
	ledger []transaction.Transaction, agentOf map[uint64]uint64) *AgentActivity {
	out := &AgentActivity{Kind: KindAgentActivity, Agents: make([]AgentBlock, 0, len(agents)), Branches: []BranchRollup{}}
	idx := make(map[uint64]int, len(agents))
	for _, a := range agents {
		idx[a.ID] = len(out.Agents)
		out.Agents = append(out.Agents, AgentBlock{AgentID: a.ID, AgentName: a.Name, BranchID: a.BranchID})
	}
	block := func(agentID uint64) *Activity {
		if j, ok := idx[agentID]; ok {
			return &out.Agents[j].Activity
		}
		return nil
	}

	for i := range created {
		if b := block(created[i].AgentID); b != nil {
			b.RequestsHandled++
			if created[i].IsRenewal() {
				b.Renewed++
			}
		}
	}
	for i := range funded {
		if funded[i].FundedAt == nil {
			continue
		}
		if b := block(funded[i].AgentID); b != nil {
			b.Funded++
		}
	}
	for _, t := range ledger {
		b := block(agentOf[t.LoanRequestID])
		if b == nil {
			continue
		}
		switch t.Type {
		case transaction.TypeRepayment:
			b.RepaymentsCount++
			b.RepaymentsAmount += t.Amount
		case transaction.TypePenalty:
			b.PenaltiesCount++
			b.PenaltiesAmount += t.Amount
		}
	}

	byBranch := map[uint64]int{}
	for _, a := range out.Agents {
		j, ok := byBranch[a.BranchID]
		if !ok {
			j = len(out.Branches)
			byBranch[a.BranchID] = j
			out.Branches = append(out.Branches, BranchRollup{BranchID: a.BranchID})
		}
		out.Branches[j].add(a.Activity)
		out.Totals.add(a.Activity)
	}
	sort.Slice(out.Branches, func(i, j int) bool { return out.Branches[i].BranchID < out.Branches[j].BranchID })
	return out
}

// buildFundedGrowth buckets funded requests by month of FundedAt for year and year-1.
func buildFundedGrowth(cal *timeutil.Calendar, year int, loans []loanrequest.LoanRequest) *FundedGrowth {
	out := &FundedGrowth{Kind: KindFundedGrowth, PreviousYear: year - 1, CurrentYear: year, Blocks: make([]MonthBlock, 12)}
	for m := range out.Blocks {
		out.Blocks[m].Month = m + 1
	}
	for i := range loans {
		l := &loans[i]
		if l.FundedAt == nil {
			continue
		}
		t := l.FundedAt.In(cal.Loc)
		b := &out.Blocks[int(t.Month())-1]
		switch t.Year() {
		case year:
			b.CurrentYear++
			b.CurrentAmount += l.RequestedAmount
		case year - 1:
			b.PreviousYear++
			b.PreviousAmount += l.RequestedAmount
		}
	}
	return fundedGrowthTotals(out)
}

func fundedGrowthTotals(out *FundedGrowth) *FundedGrowth {
	out.Totals = GrowthTotals{}
	for _, b := range out.Blocks {
		out.Totals.PreviousYearTotal += b.PreviousYear
		out.Totals.CurrentYearTotal += b.CurrentYear
	}
	out.Totals.Difference = out.Totals.CurrentYearTotal - out.Totals.PreviousYearTotal
	out.Totals.Growth = money.Growth(int64(out.Totals.PreviousYearTotal), int64(out.Totals.CurrentYearTotal))
	return out
}

func buildCollections(cal *timeutil.Calendar, ledger []transaction.Transaction) *Collections {
	out := &Collections{Kind: KindCollections, Blocks: []DayAmount{}}
	idx := map[string]int{}
	for _, t := range ledger {
		if t.Type != transaction.TypeRepayment {
			continue
		}
		day := cal.DayOf(t.Date)
		j, ok := idx[day]
		if !ok {
			j = len(out.Blocks)
			idx[day] = j
			out.Blocks = append(out.Blocks, DayAmount{Date: day})
		}
		out.Blocks[j].Count++
		out.Blocks[j].Amount += t.Amount
		out.Totals.Count++
		out.Totals.Amount += t.Amount
	}
	sort.Slice(out.Blocks, func(i, j int) bool { return out.Blocks[i].Date < out.Blocks[j].Date })
	return out
}

// buildDisbursements splits disbursed cash by whether the request is a renewal continuation.
func buildDisbursements(cal *timeutil.Calendar, ledger []transaction.Transaction, renewal map[uint64]bool) *Disbursements {
	out := &Disbursements{Kind: KindDisbursements, Blocks: []DisbursementDay{}}
	idx := map[string]int{}
	for _, t := range ledger {
		if t.Type != transaction.TypeDisbursement {
			continue
		}
		day := cal.DayOf(t.Date)
		j, ok := idx[day]
		if !ok {
			j = len(out.Blocks)
			idx[day] = j
			out.Blocks = append(out.Blocks, DisbursementDay{Date: day})
		}
		if renewal[t.LoanRequestID] {
			out.Blocks[j].Renewals.Count++
			out.Blocks[j].Renewals.Amount += t.Amount
			out.Totals.Renewals.Count++
			out.Totals.Renewals.Amount += t.Amount
		} else {
			out.Blocks[j].New.Count++
			out.Blocks[j].New.Amount += t.Amount
			out.Totals.New.Count++
			out.Totals.New.Amount += t.Amount
		}
		out.Totals.Amount += t.Amount
	}
	sort.Slice(out.Blocks, func(i, j int) bool { return out.Blocks[i].Date < out.Blocks[j].Date })
	return out
}

func buildPenalties(ledger []transaction.Transaction, agentOf map[uint64]uint64) *Penalties {
	out := &Penalties{Kind: KindPenalties, Blocks: []AgentAmount{}}
	idx := map[uint64]int{}
	for _, t := range ledger {
		if t.Type != transaction.TypePenalty {
			continue
		}
		agentID := agentOf[t.LoanRequestID]
		j, ok := idx[agentID]
		if !ok {
			j = len(out.Blocks)
			idx[agentID] = j
			out.Blocks = append(out.Blocks, AgentAmount{AgentID: agentID})
		}
		out.Blocks[j].Count++
		out.Blocks[j].Amount += t.Amount
		out.Totals.Count++
		out.Totals.Amount += t.Amount
	}
	sort.Slice(out.Blocks, func(i, j int) bool { return out.Blocks[i].AgentID < out.Blocks[j].AgentID })
	return out
}

// buildRenewals lists RENEWED requests closed in [from, to) next to their continuation.
func buildRenewals(loans []loanrequest.LoanRequest, from, to *time.Time) *Renewals {
	out := &Renewals{Kind: KindRenewals, Data: []RenewalRow{}}
	next := map[uint64]*loanrequest.LoanRequest{}
	for i := range loans {
		if p := loans[i].RenewedFromID; p != nil {
			next[*p] = &loans[i]
		}
	}
	for i := range loans {
		l := &loans[i]
		if l.Status != loanrequest.StatusRenewed || !within(l.ClosedAt, from, to) {
			continue
		}
		row := RenewalRow{
			LoanRequestID: l.ID,
			ClientID:      l.ClientID,
			AgentID:       l.AgentID,
			Amount:        l.Amount,
			AmountPaid:    l.AmountPaid,
			RenewedAt:     l.ClosedAt,
		}
		if n, ok := next[l.ID]; ok {
			cid := n.ID
			row.ContinuationID = &cid
			row.ContinuationStatus = n.Status
			row.CarriedBalance = n.CarriedBalance
			row.NewRequested = n.RequestedAmount
		}
		out.Data = append(out.Data, row)
		out.Totals.Count++
		out.Totals.CarriedBalance += row.CarriedBalance
		out.Totals.NewRequested += row.NewRequested
	}
	return out
}

func within(t, from, to *time.Time) bool {
	if t == nil {
		return false
	}
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func buildCashFlowSummary(moves []cashflow.CashFlow) *CashFlowSummary {
	out := &CashFlowSummary{Kind: KindCashFlowSummary, Blocks: []FlowBlock{}}
	idx := map[string]int{}
	for _, m := range moves {
		key := string(m.TypeMovement) + "|" + string(m.Category)
		j, ok := idx[key]
		if !ok {
			j = len(out.Blocks)
			idx[key] = j
			out.Blocks = append(out.Blocks, FlowBlock{TypeMovement: string(m.TypeMovement), Category: string(m.Category)})
		}
		out.Blocks[j].Count++
		out.Blocks[j].Amount += m.Amount
		switch m.TypeMovement {
		case cashflow.TypeEntrada:
			out.Totals.Entradas += m.Amount
		case cashflow.TypeSalida:
			out.Totals.Salidas += m.Amount
		case cashflow.TypeTransferencia:
			out.Totals.Transferencias += m.Amount
		}
	}
	out.Totals.Net = out.Totals.Entradas - out.Totals.Salidas
	sort.Slice(out.Blocks, func(i, j int) bool {
		if out.Blocks[i].TypeMovement != out.Blocks[j].TypeMovement {
			return out.Blocks[i].TypeMovement < out.Blocks[j].TypeMovement
		}
		return out.Blocks[i].Category < out.Blocks[j].Category
	})
	return out
}

func buildDailyCash(cal *timeutil.Calendar, moves []cashflow.CashFlow, ledger []transaction.Transaction) *DailyCash {
	out := &DailyCash{Kind: KindDailyCash, Blocks: []CashDay{}}
	idx := map[string]int{}
	day := func(t time.Time) *CashDay {
		d := cal.DayOf(t)
		j, ok := idx[d]
		if !ok {
			j = len(out.Blocks)
			idx[d] = j
			out.Blocks = append(out.Blocks, CashDay{Date: d})
		}
		return &out.Blocks[j]
	}
	for _, m := range moves {
		b := day(m.CreatedAt)
		switch m.TypeMovement {
		case cashflow.TypeEntrada:
			b.Entradas += m.Amount
		case cashflow.TypeSalida:
			b.Salidas += m.Amount
		case cashflow.TypeTransferencia:
			b.Transferencias += m.Amount
		}
	}
	for _, t := range ledger {
		switch t.Type {
		case transaction.TypeRepayment, transaction.TypePenalty:
			day(t.Date).Collections += t.Amount
		case transaction.TypeDisbursement:
			day(t.Date).Disbursements += t.Amount
		}
	}
	sort.Slice(out.Blocks, func(i, j int) bool { return out.Blocks[i].Date < out.Blocks[j].Date })
	for _, b := range out.Blocks {
		out.Totals.add(b)
	}
	return out
}

func buildClientStatus(clients []client.Client) *ClientStatus {
	out := &ClientStatus{Kind: KindClientStatus, Blocks: make([]ClientStatusBlock, 0, len(client.Statuses))}
	counts := map[client.Status]int{}
	for _, c := range clients {
		counts[c.Status]++
	}
	out.Totals.Count = len(clients)
	for _, s := range client.Statuses {
		out.Blocks = append(out.Blocks, ClientStatusBlock{
			Status:     s,
			Count:      counts[s],
			Percentage: money.Percent(int64(counts[s]), int64(len(clients))),
		})
	}
	return out
}

func buildClientStatement(c client.Client, loans []loanrequest.LoanRequest, ledger []transaction.Transaction) *ClientStatement {
	out := &ClientStatement{Kind: KindClientStatement, Client: c, Loans: make([]StatementLoan, 0, len(loans))}
	rows := map[uint64][]transaction.Transaction{}
	for _, t := range ledger {
		rows[t.LoanRequestID] = append(rows[t.LoanRequestID], t)
	}
	for i := range loans {
		l := &loans[i]
		txs := rows[l.ID]
		if txs == nil {
			txs = []transaction.Transaction{}
		}
		for _, t := range txs {
			if t.Type == transaction.TypePenalty {
				out.Totals.Penalties += t.Amount
			}
		}
		out.Loans = append(out.Loans, StatementLoan{
			LoanRequest:    *l,
			Balance:        l.Balance(),
			PercentagePaid: l.PercentagePaid(),
			Transactions:   txs,
		})
		out.Totals.RequestedAmount += l.RequestedAmount
		out.Totals.Amount += l.Amount
		out.Totals.AmountPaid += l.AmountPaid
		if l.Status == loanrequest.StatusFunded {
			out.Totals.Balance += l.Balance()
		}
	}
	return out
}

func buildDocuments(docs []document.Document, only *document.Category) *Documents {
	out := &Documents{Kind: KindDocuments, Blocks: []DocumentBlock{}}
	counts := map[document.Category]int{}
	for _, d := range docs {
		counts[d.Category]++
	}
	for _, c := range document.Categories {
		if only != nil && *only != c {
			continue
		}
		out.Blocks = append(out.Blocks, DocumentBlock{Category: c, Count: counts[c]})
		out.Totals.Count += counts[c]
	}
	return out
}

func buildLoanStatusSummary(loans []loanrequest.LoanRequest) *LoanStatusSummary {
	out := &LoanStatusSummary{Kind: KindLoanStatusSummary, Blocks: make([]StatusSummaryBlock, 0, len(loanrequest.Statuses))}
	idx := map[loanrequest.Status]int{}
	for _, s := range loanrequest.Statuses {
		idx[s] = len(out.Blocks)
		out.Blocks = append(out.Blocks, StatusSummaryBlock{Status: s})
	}
	for i := range loans {
		l := &loans[i]
		j, ok := idx[l.Status]
		if !ok {
			continue
		}
		out.Blocks[j].Count++
		out.Blocks[j].RequestedAmount += l.RequestedAmount
		out.Blocks[j].Amount += l.Amount
		out.Totals.Count++
		out.Totals.RequestedAmount += l.RequestedAmount
		out.Totals.Amount += l.Amount
	}
	return out
}

// yearStart is January 1st of year in the business zone.
func yearStart(cal *timeutil.Calendar, year int) (time.Time, error) {
	return cal.ParseDay(strconv.Itoa(year) + "-01-01")
}
