package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"immo-pipeline/models"
	"immo-pipeline/utils"
)

const (
	// minCompleteRows gates the multivariate strategies: with fewer
	// complete rows the engine falls back to group-wise medians.
	minCompleteRows = 10
	// iterativeRounds caps the refit loop of the iterative strategy.
	iterativeRounds = 10
	// iterativeTol stops the refit loop once the largest update falls
	// below this fraction of the column's largest observed magnitude.
	iterativeTol = 1e-3
	// roomsPerSqm drives the rooms-from-surface heuristic: roughly one
	// room per 35 m².
	roomsPerSqm = 35.0
	// defaultRooms fills room counts nothing else could resolve.
	defaultRooms = 3.0
)

// Imputer executes the chosen strategy per column, writing back only the
// originally-missing entries. Observed values are never altered.
type Imputer struct {
	logger *utils.Logger
}

// NewImputer creates an Imputer with the given logger.
func NewImputer(logger *utils.Logger) *Imputer {
	return &Imputer{logger: logger}
}

// ImputeAll runs the full imputation sequence in place: location
// cross-imputation, categorical fills, the rooms-from-surface heuristic,
// then the numeric columns under their selected strategies. The returned
// report is owned by the caller. Any panic from a fitting routine is
// converted to an error so the caller can apply its conservative fallback.
func (im *Imputer) ImputeAll(listings []*models.Listing, profiles []models.ColumnProfile) (report *models.ImputationReport, err error) {
	report = &models.ImputationReport{Profiles: profiles}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("impute: fitting failed: %v", r)
		}
	}()

	total := len(listings)
	if total == 0 {
		return report, nil
	}

	// Categorical columns. Location and wilaya resolve each other first;
	// whatever remains goes through mode or encoded KNN, then the
	// Unknown sentinel pass keeps the never-null invariant.
	catBefore := make(map[string]int)
	for _, col := range categoricalColumns() {
		catBefore[col.name] = countMissingCat(listings, col)
	}

	im.crossImputeLocations(listings)

	for _, col := range categoricalColumns() {
		missing := countMissingCat(listings, col)
		if missing == 0 && catBefore[col.name] == 0 {
			continue
		}
		pct := float64(missing) / float64(total) * 100
		strategy := SelectForColumn(col.name, models.KindCategorical, pct, 0)
		if missing > 0 {
			strategy = im.imputeCategorical(listings, col, strategy)
		}
		report.Add(models.ColumnImputation{
			Column:        col.name,
			Strategy:      strategy.String(),
			MissingBefore: catBefore[col.name],
			MissingAfter:  countMissingCat(listings, col),
		})
	}

	im.sentinelLocations(listings)

	// Rooms-from-surface heuristic runs before the multivariate step so
	// the KNN features are denser.
	if estimated := im.roomsFromSurface(listings); estimated > 0 {
		im.logger.Info("[impute] estimated %d room counts from surface", estimated)
	}

	// Numeric columns.
	for _, col := range numericColumns() {
		values := collectNumeric(listings, col)
		before := len(values) - len(observed(values))
		if before == 0 {
			continue
		}
		pct := float64(before) / float64(total) * 100
		strategy := SelectForColumn(col.name, models.KindNumeric, pct, skewness(values))
		used := im.imputeNumeric(listings, col, strategy)
		report.Add(models.ColumnImputation{
			Column:        col.name,
			Strategy:      used.String(),
			MissingBefore: before,
			MissingAfter:  countMissingNum(listings, col),
		})
	}

	return report, nil
}

// crossImputeLocations resolves location and wilaya from each other:
// wilaya from the first observed wilaya per location, location from the
// most common location per wilaya.
func (im *Imputer) crossImputeLocations(listings []*models.Listing) {
	locationToWilaya := make(map[string]string)
	for _, l := range listings {
		if isUnknownName(l.Location) || isUnknownName(l.Wilaya) {
			continue
		}
		if _, ok := locationToWilaya[l.Location]; !ok {
			locationToWilaya[l.Location] = l.Wilaya
		}
	}

	wilayaLocations := make(map[string]map[string]int)
	for _, l := range listings {
		if isUnknownName(l.Location) || isUnknownName(l.Wilaya) {
			continue
		}
		if wilayaLocations[l.Wilaya] == nil {
			wilayaLocations[l.Wilaya] = make(map[string]int)
		}
		wilayaLocations[l.Wilaya][l.Location]++
	}

	filledWilaya, filledLocation := 0, 0
	for _, l := range listings {
		if isUnknownName(l.Wilaya) && !isUnknownName(l.Location) {
			if w, ok := locationToWilaya[l.Location]; ok {
				l.Wilaya = w
				filledWilaya++
			}
		}
		if isUnknownName(l.Location) && !isUnknownName(l.Wilaya) {
			if locs := wilayaLocations[l.Wilaya]; len(locs) > 0 {
				l.Location = mostCommon(locs)
				filledLocation++
			}
		}
	}

	if filledWilaya+filledLocation > 0 {
		im.logger.Info("[impute] location cross-imputation: %d wilayas, %d locations resolved",
			filledWilaya, filledLocation)
	}
}

// sentinelLocations applies the Unknown sentinel so neither field is ever
// left unresolved; a known wilaya is preserved in the location sentinel.
func (im *Imputer) sentinelLocations(listings []*models.Listing) {
	for _, l := range listings {
		if isUnknownName(l.Location) {
			if !isUnknownName(l.Wilaya) {
				l.Location = UnknownName + "-" + l.Wilaya
			} else {
				l.Location = UnknownName
			}
		}
		if isUnknownName(l.Wilaya) {
			l.Wilaya = UnknownName
		}
	}
}

func mostCommon(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// roomsFromSurface estimates missing room counts from the surface where
// available, clamped to the plausible range.
func (im *Imputer) roomsFromSurface(listings []*models.Listing) int {
	estimated := 0
	for _, l := range listings {
		if !models.IsMissing(l.Rooms) || models.IsMissing(l.Surface) {
			continue
		}
		rooms := math.Round(l.Surface / roomsPerSqm)
		if rooms < 1 {
			rooms = 1
		}
		if rooms > 20 {
			rooms = 20
		}
		l.Rooms = rooms
		estimated++
	}
	return estimated
}

// imputeCategorical applies mode fill or encoded KNN to one categorical
// column and returns the strategy actually used.
func (im *Imputer) imputeCategorical(listings []*models.Listing, col categoricalColumn, strategy Strategy) Strategy {
	if strategy == StrategyKNN {
		matrix, decoders := encodeCategoricals(listings)
		target := categoricalIndex(col.name)
		if countCompleteRows(matrix) >= minCompleteRows {
			k := KNeighbors(countCompleteRows(matrix))
			filled := knnFillColumn(matrix, target, k)
			values := decoders[target]
			for i, l := range listings {
				if !col.missing(col.get(l)) || models.IsMissing(filled[i]) {
					continue
				}
				code := int(math.Round(filled[i]))
				if code < 0 {
					code = 0
				}
				if code >= len(values) {
					code = len(values) - 1
				}
				col.set(l, values[code])
			}
			return StrategyKNN
		}
		im.logger.Warn("[impute] %s: too few complete rows for knn, using mode", col.name)
		strategy = StrategyMode
	}

	// Mode fill. Transaction defaults to Sale when no mode exists.
	values := make([]string, len(listings))
	for i, l := range listings {
		values[i] = col.get(l)
	}
	mode, ok := modeOf(values, col.missing)
	if !ok && col.name == ColTransaction {
		mode, ok = models.TransactionSale.String(), true
	}
	if ok {
		for _, l := range listings {
			if col.missing(col.get(l)) {
				col.set(l, mode)
			}
		}
	}
	return StrategyMode
}

// imputeNumeric applies the selected strategy to one numeric column,
// falling back to group-wise medians when the data is too thin for a
// multivariate fit. Returns the strategy actually used.
func (im *Imputer) imputeNumeric(listings []*models.Listing, col numericColumn, strategy Strategy) Strategy {
	switch strategy {
	case StrategyMean:
		fillConstant(listings, col, meanOf(collectNumeric(listings, col)))
		return StrategyMean
	case StrategyMedian:
		fillConstant(listings, col, median(collectNumeric(listings, col)))
		return StrategyMedian
	case StrategyGroupMedian:
		im.groupMedianFill(listings, col)
		return StrategyGroupMedian
	case StrategyConstant:
		fillConstant(listings, col, defaultRooms)
		return StrategyConstant
	}

	// Multivariate strategies need enough complete rows to fit.
	matrix := buildFeatureMatrix(listings)
	complete := countCompleteRows(matrix)
	if complete < minCompleteRows {
		im.logger.Warn("[impute] %s: only %d complete rows, falling back to group median",
			col.name, complete)
		im.groupMedianFill(listings, col)
		return StrategyGroupMedian
	}

	target := numericIndex(col.name)
	var filled []float64
	if strategy == StrategyKNN {
		filled = knnFillColumn(matrix, target, KNeighbors(complete))
	} else {
		filled = iterativeFillColumn(matrix, target)
	}

	for i, l := range listings {
		if models.IsMissing(col.get(l)) && !models.IsMissing(filled[i]) {
			col.set(l, filled[i])
		}
	}
	return strategy
}

// groupMedianFill imputes with the median within each wilaya, then the
// global median. Room counts still missing after both get the default.
func (im *Imputer) groupMedianFill(listings []*models.Listing, col numericColumn) {
	byWilaya := make(map[string][]float64)
	for _, l := range listings {
		if v := col.get(l); !models.IsMissing(v) {
			byWilaya[l.Wilaya] = append(byWilaya[l.Wilaya], v)
		}
	}

	for _, l := range listings {
		if !models.IsMissing(col.get(l)) {
			continue
		}
		if m := median(byWilaya[l.Wilaya]); !models.IsMissing(m) {
			col.set(l, m)
		}
	}

	fillConstant(listings, col, median(collectNumeric(listings, col)))

	if col.name == ColRooms {
		fillConstant(listings, col, defaultRooms)
	}
}

func fillConstant(listings []*models.Listing, col numericColumn, value float64) {
	if models.IsMissing(value) {
		return
	}
	for _, l := range listings {
		if models.IsMissing(col.get(l)) {
			col.set(l, value)
		}
	}
}

// --- feature matrix ---------------------------------------------------

// buildFeatureMatrix assembles the multivariate imputation features:
// the three numeric columns plus label-encoded wilaya and transaction.
// Missing entries are NaN.
func buildFeatureMatrix(listings []*models.Listing) [][]float64 {
	wilayaCodes := labelCodes(listings, func(l *models.Listing) string { return l.Wilaya }, isUnknownName)

	matrix := make([][]float64, len(listings))
	for i, l := range listings {
		row := make([]float64, 5)
		row[0] = l.Price
		row[1] = l.Surface
		row[2] = l.Rooms
		row[3] = wilayaCodes[i]
		if l.Transaction == models.TransactionUnknown {
			row[4] = models.Missing()
		} else {
			row[4] = float64(l.Transaction)
		}
		matrix[i] = row
	}
	return matrix
}

// numericIndex maps a numeric column name to its feature-matrix index.
func numericIndex(name string) int {
	switch name {
	case ColPrice:
		return 0
	case ColSurface:
		return 1
	default:
		return 2
	}
}

// categoricalIndex maps a categorical column name to its index in the
// encoded categorical matrix.
func categoricalIndex(name string) int {
	switch name {
	case ColTransaction:
		return 0
	case ColLocation:
		return 1
	default:
		return 2
	}
}

// labelCodes encodes a categorical field onto small integers in sorted
// value order; missing values become NaN.
func labelCodes(listings []*models.Listing, get func(*models.Listing) string, missing func(string) bool) []float64 {
	distinct := make(map[string]struct{})
	for _, l := range listings {
		if v := get(l); !missing(v) {
			distinct[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Strings(values)
	codeOf := make(map[string]int, len(values))
	for i, v := range values {
		codeOf[v] = i
	}

	codes := make([]float64, len(listings))
	for i, l := range listings {
		if v := get(l); !missing(v) {
			codes[i] = float64(codeOf[v])
		} else {
			codes[i] = models.Missing()
		}
	}
	return codes
}

// encodeCategoricals builds the encoded matrix over the categorical
// columns plus the decoder (code → value) for each.
func encodeCategoricals(listings []*models.Listing) ([][]float64, [][]string) {
	cols := categoricalColumns()
	decoders := make([][]string, len(cols))
	columns := make([][]float64, len(cols))

	for c, col := range cols {
		distinct := make(map[string]struct{})
		for _, l := range listings {
			if v := col.get(l); !col.missing(v) {
				distinct[v] = struct{}{}
			}
		}
		values := make([]string, 0, len(distinct))
		for v := range distinct {
			values = append(values, v)
		}
		sort.Strings(values)
		decoders[c] = values
		codeOf := make(map[string]int, len(values))
		for i, v := range values {
			codeOf[v] = i
		}

		columns[c] = make([]float64, len(listings))
		for i, l := range listings {
			if v := col.get(l); !col.missing(v) {
				columns[c][i] = float64(codeOf[v])
			} else {
				columns[c][i] = models.Missing()
			}
		}
	}

	matrix := make([][]float64, len(listings))
	for i := range listings {
		row := make([]float64, len(cols))
		for c := range cols {
			row[c] = columns[c][i]
		}
		matrix[i] = row
	}
	return matrix, decoders
}

func countCompleteRows(matrix [][]float64) int {
	complete := 0
	for _, row := range matrix {
		ok := true
		for _, v := range row {
			if models.IsMissing(v) {
				ok = false
				break
			}
		}
		if ok {
			complete++
		}
	}
	return complete
}

func collectNumeric(listings []*models.Listing, col numericColumn) []float64 {
	values := make([]float64, len(listings))
	for i, l := range listings {
		values[i] = col.get(l)
	}
	return values
}

func countMissingNum(listings []*models.Listing, col numericColumn) int {
	n := 0
	for _, l := range listings {
		if models.IsMissing(col.get(l)) {
			n++
		}
	}
	return n
}

func countMissingCat(listings []*models.Listing, col categoricalColumn) int {
	n := 0
	for _, l := range listings {
		if col.missing(col.get(l)) {
			n++
		}
	}
	return n
}

// --- k-nearest-neighbor -----------------------------------------------

// knnFillColumn returns, for each row, the distance-weighted KNN estimate
// of the target column (NaN where no estimate is possible). Rows with an
// observed target keep their value. Distances are NaN-aware Euclidean
// over the remaining columns, scaled by the share of usable coordinates.
func knnFillColumn(matrix [][]float64, target, k int) []float64 {
	n := len(matrix)
	out := make([]float64, n)

	donors := make([]int, 0, n)
	for i, row := range matrix {
		if !models.IsMissing(row[target]) {
			donors = append(donors, i)
		}
	}

	type neighbor struct {
		dist  float64
		value float64
	}

	for i, row := range matrix {
		if !models.IsMissing(row[target]) {
			out[i] = row[target]
			continue
		}

		neighbors := make([]neighbor, 0, len(donors))
		for _, d := range donors {
			dist, ok := nanDistance(row, matrix[d], target)
			if !ok {
				continue
			}
			neighbors = append(neighbors, neighbor{dist: dist, value: matrix[d][target]})
		}
		if len(neighbors) == 0 {
			out[i] = models.Missing()
			continue
		}

		sort.Slice(neighbors, func(a, b int) bool { return neighbors[a].dist < neighbors[b].dist })
		if len(neighbors) > k {
			neighbors = neighbors[:k]
		}

		// Distance weighting; an exact match takes over.
		var weighted, weightSum float64
		exact := false
		for _, nb := range neighbors {
			if nb.dist == 0 {
				weighted += nb.value
				weightSum++
				exact = true
				continue
			}
			if exact {
				continue
			}
			w := 1 / nb.dist
			weighted += w * nb.value
			weightSum += w
		}
		out[i] = weighted / weightSum
	}
	return out
}

// nanDistance is the Euclidean distance over coordinates observed in both
// rows (the target column excluded), scaled up by the share of missing
// coordinates. ok is false when no coordinate is shared.
func nanDistance(a, b []float64, target int) (float64, bool) {
	var sum float64
	used, totalCoords := 0, 0
	for c := range a {
		if c == target {
			continue
		}
		totalCoords++
		if models.IsMissing(a[c]) || models.IsMissing(b[c]) {
			continue
		}
		d := a[c] - b[c]
		sum += d * d
		used++
	}
	if used == 0 {
		return 0, false
	}
	return math.Sqrt(sum * float64(totalCoords) / float64(used)), true
}

// --- iterative regression ---------------------------------------------

// iterativeFillColumn runs round-robin regression imputation over the
// matrix with a regression-tree ensemble, until the largest update falls
// under tolerance or the round cap is reached, and returns the resulting
// target column.
func iterativeFillColumn(matrix [][]float64, target int) []float64 {
	n := len(matrix)
	if n == 0 {
		return nil
	}
	cols := len(matrix[0])

	missingMask := make([][]bool, n)
	for i, row := range matrix {
		missingMask[i] = make([]bool, cols)
		for c, v := range row {
			missingMask[i][c] = models.IsMissing(v)
		}
	}

	// Initial fill: column medians of the observed values.
	scale := make([]float64, cols)
	for c := 0; c < cols; c++ {
		column := make([]float64, n)
		for i := range matrix {
			column[i] = matrix[i][c]
		}
		m := median(column)
		for _, v := range observed(column) {
			if a := math.Abs(v); a > scale[c] {
				scale[c] = a
			}
		}
		if models.IsMissing(m) {
			m = 0
		}
		for i := range matrix {
			if missingMask[i][c] {
				matrix[i][c] = m
			}
		}
	}

	rng := rand.New(rand.NewSource(forestSeed))

	for round := 0; round < iterativeRounds; round++ {
		maxChange := 0.0

		for c := 0; c < cols; c++ {
			trainIdx := make([]int, 0, n)
			fillIdx := make([]int, 0)
			for i := range matrix {
				if missingMask[i][c] {
					fillIdx = append(fillIdx, i)
				} else {
					trainIdx = append(trainIdx, i)
				}
			}
			if len(fillIdx) == 0 || len(trainIdx) < minCompleteRows {
				continue
			}

			X := make([][]float64, 0, len(trainIdx))
			y := make([]float64, 0, len(trainIdx))
			for _, i := range trainIdx {
				X = append(X, dropColumn(matrix[i], c))
				y = append(y, matrix[i][c])
			}
			f := fitForest(X, y, rng)

			for _, i := range fillIdx {
				pred := f.predict(dropColumn(matrix[i], c))
				if rel := math.Abs(pred-matrix[i][c]) / scaleOr1(scale[c]); rel > maxChange {
					maxChange = rel
				}
				matrix[i][c] = pred
			}
		}

		if maxChange < iterativeTol {
			break
		}
	}

	out := make([]float64, n)
	for i := range matrix {
		out[i] = matrix[i][target]
	}
	return out
}

func dropColumn(row []float64, c int) []float64 {
	out := make([]float64, 0, len(row)-1)
	out = append(out, row[:c]...)
	return append(out, row[c+1:]...)
}

func scaleOr1(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}
