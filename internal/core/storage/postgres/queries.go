package postgres

// SQL for catalog CRUD and the price analytics queries.
//
// Optional-filter listings (price history, searches, price listings) are
// assembled in the adapters; everything with a fixed shape lives here.

const (
	queryInsertProduct = `
		INSERT INTO products (title, link)
		VALUES ($1, $2)
		RETURNING id
	`

	queryGetProduct = `
		SELECT id, title, link
		FROM products
		WHERE id = $1
	`

	queryListProducts = `
		SELECT id, title, link
		FROM products
		ORDER BY id
		OFFSET $1 LIMIT $2
	`

	queryCountProducts = `SELECT COUNT(*) FROM products`

	queryUpdateProduct = `
		UPDATE products
		SET title = $1, link = $2
		WHERE id = $3
	`

	queryDeleteProduct = `DELETE FROM products WHERE id = $1`

	queryInsertSalePoint = `
		INSERT INTO sale_points (name, city, website, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	queryGetSalePoint = `
		SELECT id, name, city, website, type
		FROM sale_points
		WHERE id = $1
	`

	queryUpdateSalePoint = `
		UPDATE sale_points
		SET name = $1, city = $2, website = $3, type = $4
		WHERE id = $5
	`

	queryDeleteSalePoint = `DELETE FROM sale_points WHERE id = $1`

	queryInsertDate = `
		INSERT INTO dates (day, month, year)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	queryGetDate = `
		SELECT id, day, month, year
		FROM dates
		WHERE id = $1
	`

	queryDeleteDate = `DELETE FROM dates WHERE id = $1`

	queryInsertAssociation = `
		INSERT INTO product_sale_points (id_product, id_sale_point)
		VALUES ($1, $2)
		ON CONFLICT (id_product, id_sale_point) DO NOTHING
	`

	queryGetAssociation = `
		SELECT id_product, id_sale_point
		FROM product_sale_points
		WHERE id_product = $1 AND id_sale_point = $2
	`

	queryDeleteAssociation = `
		DELETE FROM product_sale_points
		WHERE id_product = $1 AND id_sale_point = $2
	`

	// queryInsertPrice relies on the composite primary key: a conflicting
	// (product, sale point, date) triple inserts zero rows, which the
	// adapter maps to storage.ErrDuplicate.
	queryInsertPrice = `
		INSERT INTO prices (id_product, id_sale_point, id_date, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id_product, id_sale_point, id_date) DO NOTHING
	`

	queryGetPrice = `
		SELECT id_product, id_sale_point, id_date, price
		FROM prices
		WHERE id_product = $1 AND id_sale_point = $2 AND id_date = $3
	`

	queryCountPrices = `SELECT COUNT(*) FROM prices`

	queryDeletePrice = `
		DELETE FROM prices
		WHERE id_product = $1 AND id_sale_point = $2 AND id_date = $3
	`

	// queryFindDateID resolves exact calendar components to a DateRecord.
	// Duplicate (day, month, year) rows are allowed by the schema; this
	// takes the first in storage order.
	queryFindDateID = `
		SELECT id
		FROM dates
		WHERE year = $1 AND month = $2 AND day = $3
		LIMIT 1
	`

	// queryMaxPriceDateID resolves "latest" as the highest date id among
	// the product's facts. Date ids are not guaranteed chronological; the
	// comparison endpoint deliberately preserves this resolution rule.
	queryMaxPriceDateID = `
		SELECT MAX(id_date)
		FROM prices
		WHERE id_product = $1
	`

	queryPricesAtDate = `
		SELECT sp.id, sp.name, p.price, d.id
		FROM prices p
		JOIN sale_points sp ON p.id_sale_point = sp.id
		JOIN dates d ON p.id_date = d.id
		WHERE p.id_product = $1 AND p.id_date = $2
	`

	queryPriceEvolution = `
		SELECT d.id, d.year, d.month, d.day,
			AVG(p.price), MIN(p.price), MAX(p.price)
		FROM dates d
		JOIN prices p ON p.id_date = d.id
		WHERE p.id_product = $1
		GROUP BY d.id, d.year, d.month, d.day
		ORDER BY d.year, d.month, d.day
	`

	// queryCityPriceComparison keeps exactly one fact per sale point (the
	// one at that sale point's maximum date id), then aggregates by city.
	// NULL cities form their own group.
	queryCityPriceComparison = `
		SELECT sp.city, AVG(p.price), MIN(p.price), MAX(p.price)
		FROM prices p
		JOIN (
			SELECT p2.id_sale_point, MAX(p2.id_date) AS max_date_id
			FROM prices p2
			WHERE p2.id_product = $1
			GROUP BY p2.id_sale_point
		) latest
			ON p.id_sale_point = latest.id_sale_point
			AND p.id_date = latest.max_date_id
		JOIN sale_points sp ON p.id_sale_point = sp.id
		WHERE p.id_product = $1
		GROUP BY sp.city
	`

	// queryPriceTrends bounds year, month and day independently, matching
	// the span filtering in the history query.
	queryPriceTrends = `
		SELECT pr.title,
			AVG(p.price),
			MAX(p.price) - MIN(p.price),
			MAX(p.price),
			MIN(p.price)
		FROM prices p
		JOIN dates d ON p.id_date = d.id
		JOIN products pr ON p.id_product = pr.id
		WHERE d.year >= $1 AND d.month >= $2 AND d.day >= $3
			AND d.year <= $4 AND d.month <= $5 AND d.day <= $6
		GROUP BY pr.title
		ORDER BY AVG(p.price) DESC
	`

	queryProductsWithPricesCount = `SELECT COUNT(DISTINCT id_product) FROM prices`

	queryProductsBySalePoint = `
		SELECT sp.name, COUNT(psp.id_product)
		FROM sale_points sp
		JOIN product_sale_points psp ON sp.id = psp.id_sale_point
		GROUP BY sp.name
	`

	querySalePointsByCity = `
		SELECT city, COUNT(id)
		FROM sale_points
		GROUP BY city
	`

	querySalePointsByType = `
		SELECT type, COUNT(id)
		FROM sale_points
		GROUP BY type
	`

	queryPricesByMonth = `
		SELECT d.year, d.month, COUNT(p.id_product), AVG(p.price)
		FROM prices p
		JOIN dates d ON p.id_date = d.id
		GROUP BY d.year, d.month
		ORDER BY d.year, d.month
	`

	// queryAveragePricesByProduct groups by the title string, not the
	// product id: products sharing a title merge into one row.
	queryAveragePricesByProduct = `
		SELECT pr.title, AVG(p.price), MIN(p.price), MAX(p.price)
		FROM products pr
		JOIN prices p ON pr.id = p.id_product
		GROUP BY pr.title
	`
)
