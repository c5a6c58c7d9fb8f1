package repos

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the sqlite database, applies the schema and seeds demo data.
func OpenDB(dsn string) (*sqlx.DB, error) {
	return Open(dsn, true)
}

func Open(dsn string, seed bool) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// SQLite has a single writer. One pooled connection serializes every
	// transaction and keeps ":memory:" databases shared across callers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping sqlite")
	}

	if err := ensureSchema(db); err != nil {
		return nil, errors.Wrap(err, "apply schema")
	}
	if !seed {
		return db, nil
	}
	if err := seedCatalog(db); err != nil {
		return nil, errors.Wrap(err, "seed catalog")
	}
	if err := seedUsers(db); err != nil {
		return nil, errors.Wrap(err, "seed users")
	}
	return db, nil
}

// InTx runs fn inside one transaction. Any error from fn rolls everything back.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

// TimeLayout is fixed width so stored timestamps sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func now() string { return time.Now().UTC().Format(TimeLayout) }

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Catalog
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT UNIQUE,
  category TEXT NOT NULL CHECK (category IN ('accessories','beauty','electronics','food','household','other')),
  price TEXT NOT NULL,
  cost_price TEXT,
  stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  low_stock_threshold INTEGER NOT NULL DEFAULT 10,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));

CREATE TABLE IF NOT EXISTS services(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('accessories','beauty','electronics','food','household','other')),
  price TEXT NOT NULL,
  duration TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL
);

-- Staff & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('admin','manager','sales')),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT NOT NULL,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Sales ledger
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  sale_number TEXT NOT NULL UNIQUE,
  staff_user_id TEXT NOT NULL REFERENCES users(id),
  customer_name TEXT NOT NULL DEFAULT '',
  customer_phone TEXT NOT NULL DEFAULT '',
  subtotal TEXT NOT NULL,
  tax TEXT NOT NULL,
  discount TEXT NOT NULL,
  total TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('pending','completed','cancelled')),
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);

CREATE TABLE IF NOT EXISTS sale_items(
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
  product_id TEXT NULL REFERENCES products(id),
  service_id TEXT NULL REFERENCES services(id),
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  unit_price TEXT NOT NULL,
  total TEXT NOT NULL,
  position INTEGER NOT NULL,
  CHECK (product_id IS NULL OR service_id IS NULL)
);
CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id, position);

-- Stock movements
CREATE TABLE IF NOT EXISTS stock_movements(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id),
  delta INTEGER NOT NULL CHECK (delta != 0),
  reason TEXT NOT NULL CHECK (reason IN ('sale','adjustment')),
  note TEXT NOT NULL DEFAULT '',
  sale_id TEXT NULL REFERENCES sales(id) ON DELETE CASCADE,
  staff_user_id TEXT NOT NULL,
  resulting_quantity INTEGER NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedCatalog inserts demo products and services once.
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products/services")

	ts := now()
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO products(id,name,sku,category,price,cost_price,stock_quantity,low_stock_threshold,is_active,created_at) VALUES
	  ('p-shampoo','Argan Oil Shampoo','SKU-1001','beauty','15.99','7.50',40,10,1,?),
	  ('p-dryer','Ionic Hair Dryer','SKU-1002','electronics','45.99','28.00',12,5,1,?),
	  ('p-comb','Wide Tooth Comb','SKU-1003','accessories','3.50',NULL,3,10,1,?),
	  ('p-towel','Microfiber Towel',NULL,'household','9.25','4.10',25,10,1,?),
	  ('p-gel','Styling Gel (discontinued)','SKU-1005','beauty','6.00',NULL,7,10,0,?)`,
		ts, ts, ts, ts, ts)

	tx.MustExec(`INSERT INTO services(id,name,category,price,duration,is_active,created_at) VALUES
	  ('s-haircut','Haircut','beauty','25.00','30 min',1,?),
	  ('s-colour','Colour Treatment','beauty','80.00','2 h',1,?),
	  ('s-repair','Dryer Repair','electronics','35.00','1-2 days',0,?)`,
		ts, ts, ts)

	return tx.Commit()
}

// seedUsers ensures one staff account per role plus a deactivated one (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
		Active                      bool
	}
	mk := func(id, email, name, role, raw string, active bool) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h), Active: active}
	}

	users := []u{
		mk("u-admin", "admin@counterpos.test", "Admin", "admin", "Passw0rd!", true),
		mk("u-manager", "manager@counterpos.test", "Morgan", "manager", "Passw0rd!", true),
		mk("u-sales", "sales@counterpos.test", "Sam", "sales", "Passw0rd!", true),
		mk("u-former", "former@counterpos.test", "Riley", "sales", "Passw0rd!", false),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	ts := now()
	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,is_active,created_at)
			VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role, x.Active, ts); err != nil {
			return err
		}
	}

	return tx.Commit()
}
