package stockfolio

// PerformancePoint is one bucket of a performance series: a human-readable
// label for the bucket's calendar period and the portfolio value at the
// bucket's representative date.
type PerformancePoint struct {
	Label string
	Value Money
}

// PerformanceSeries is the valuation trend of one portfolio over a date
// range. It is produced fresh per query and never persisted.
type PerformanceSeries struct {
	Portfolio string
	From, To  Date
	Points    []PerformancePoint
}

// minBuckets is the floor on the number of points in a series: very short
// ranges still produce at least this many by stepping forward from the
// start date.
const minBuckets = 5

// Performance partitions the [from, to] range into time buckets and values
// the portfolio at each bucket's representative date.
//
// Granularity follows the number of whole months in the range: more than
// 90 months buckets by year, 31 to 90 by three-month spans, 2 to 30 by
// month, and at most one month by trading day. A missing quote aborts the
// whole series. Preconditions on the range (order, future dates, epoch
// year, start not today) are enforced by the Manager.
func Performance(m *Market, p *Portfolio, from, to Date) (*PerformanceSeries, error) {
	series := &PerformanceSeries{Portfolio: p.Name(), From: from, To: to}

	months := MonthsBetween(from, to)
	var err error
	switch {
	case months > 90:
		err = yearlyBuckets(m, p, from, months, series)
	case months > 30:
		err = triMonthlyBuckets(m, p, from, to, months, series)
	case months > 1:
		err = monthlyBuckets(m, p, from, months, series)
	default:
		err = dailyBuckets(m, p, from, to, series)
	}
	if err != nil {
		return nil, err
	}
	return series, nil
}

// representativeDate resolves the valuation date for a bucket whose
// calendar period ends at periodEnd: the last trading day of the period.
//
// The period end is clipped to yesterday when it lies in the future, then
// stepped back off weekends, then walked backward to the nearest quoted
// date without leaving the period. Only when the period holds no trading
// day at all does the search go forward via NextValidMarketDate.
func representativeDate(m *Market, periodStart, periodEnd Date) Date {
	yesterday := Today().Add(-1)
	if periodEnd.After(yesterday) {
		periodEnd = yesterday
	}
	d := LastWeekday(periodEnd)
	for probe := d; !probe.Before(periodStart); probe = probe.Add(-1) {
		if m.IsValidMarketDate(probe) {
			return probe
		}
	}
	return m.NextValidMarketDate(d)
}

// bucketCount floors the computed count at the series minimum.
func bucketCount(computed int) int {
	if computed < minBuckets {
		return minBuckets
	}
	return computed
}

func yearlyBuckets(m *Market, p *Portfolio, from Date, months int, series *PerformanceSeries) error {
	buckets := bucketCount(months/12 + 1)
	cur := from
	for i := 0; i < buckets; i++ {
		on := representativeDate(m, cur.StartOf(Yearly), cur.EndOf(Yearly))
		value, err := p.ValueAt(m, on)
		if err != nil {
			return err
		}
		series.Points = append(series.Points, PerformancePoint{Label: cur.Format("2006"), Value: value})
		cur = cur.AddMonthClamped(12)
	}
	return nil
}

func monthlyBuckets(m *Market, p *Portfolio, from Date, months int, series *PerformanceSeries) error {
	buckets := bucketCount(months + 1)
	cur := from
	for i := 0; i < buckets; i++ {
		on := representativeDate(m, cur.StartOf(Monthly), cur.EndOf(Monthly))
		value, err := p.ValueAt(m, on)
		if err != nil {
			return err
		}
		series.Points = append(series.Points, PerformancePoint{Label: cur.Format("Jan 2006"), Value: value})
		cur = cur.AddMonthClamped(1)
	}
	return nil
}

func triMonthlyBuckets(m *Market, p *Portfolio, from, to Date, months int, series *PerformanceSeries) error {
	buckets := bucketCount(months/3 + 1)
	curStart := from
	for i := 0; i < buckets; i++ {
		// The natural bucket spans three months; the final partial bucket
		// shrinks so its end never crosses the end date's month.
		curEnd := curStart.AddMonthClamped(2)
		if curEnd.After(to) && curEnd.Month() != to.Month() {
			curEnd = curStart.AddMonthClamped(1)
		}
		if next := curStart.AddMonthClamped(1); next.After(to) && next.Month() != to.Month() {
			curEnd = curStart
		}

		periodEnd := curEnd.EndOf(Monthly)
		if curEnd.Year() == to.Year() && curEnd.Month() == to.Month() {
			periodEnd = to
		}
		on := representativeDate(m, curStart.StartOf(Monthly), periodEnd)
		value, err := p.ValueAt(m, on)
		if err != nil {
			return err
		}
		label := curStart.Format("Jan 2006") + " - " + curEnd.Format("Jan 2006")
		series.Points = append(series.Points, PerformancePoint{Label: label, Value: value})
		curStart = curEnd.AddMonthClamped(1)
	}
	return nil
}

func dailyBuckets(m *Market, p *Portfolio, from, to Date, series *PerformanceSeries) error {
	buckets := bucketCount(WeekdaysBetween(from, to) + 1)
	d := from
	for i := 0; i < buckets; i++ {
		on := d
		if !m.IsValidMarketDate(on) {
			on = NextWeekday(on)
		}
		value, err := p.ValueAt(m, on)
		if err != nil {
			return err
		}
		series.Points = append(series.Points, PerformancePoint{Label: on.Format("Mon, 02 Jan 2006"), Value: value})
		d = NextWeekday(on)
	}
	return nil
}
