package mysql

const saveListingSQL = `
INSERT INTO listings
  (id, kind, provider_id, title_en, title_ar, price, currency, rating, details, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  provider_id = VALUES(provider_id),
  title_en    = VALUES(title_en),
  title_ar    = VALUES(title_ar),
  price       = VALUES(price),
  currency    = VALUES(currency),
  rating      = VALUES(rating),
  details     = VALUES(details),
  updated_at  = VALUES(updated_at)
`

const listingColumns = `id, kind, provider_id, title_en, title_ar, price, currency, rating, details, created_at, updated_at`

const getListingSQL = `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`

const deleteListingSQL = `DELETE FROM listings WHERE id = ?`

const countListingsSQL = `
SELECT kind, COUNT(*)
FROM listings
WHERE (? = '' OR provider_id = ?)
GROUP BY kind
`

const insertMissSQL = `
INSERT INTO ingest_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), reason = VALUES(reason), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const bookingColumns = `id, listing_id, kind, customer_id, provider_id, guests, total, currency, status, notes, created_at, updated_at`

const insertBookingSQL = `INSERT INTO bookings (` + bookingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateBookingStatusSQL = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP(6) WHERE id = ?`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

const getBookingSQL = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

// Empty filter arguments match every row.
const bookingsWhere = `
WHERE (? = '' OR customer_id = ?)
  AND (? = '' OR provider_id = ?)
`

const listBookingsSQL = `SELECT ` + bookingColumns + ` FROM bookings` + bookingsWhere + `ORDER BY created_at DESC, id DESC`

const countBookingsSQL = `SELECT status, COUNT(*) FROM bookings` + bookingsWhere + `GROUP BY status`

// -----------------------------------------------------------------------------
// PROFILES
// -----------------------------------------------------------------------------

const profileColumns = `id, email, full_name, phone, role, preferred_lang, created_at`

const upsertProfileSQL = `
INSERT INTO profiles (` + profileColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  email          = VALUES(email),
  full_name      = VALUES(full_name),
  phone          = VALUES(phone),
  role           = VALUES(role),
  preferred_lang = VALUES(preferred_lang)
`

const getProfileSQL = `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`

const listProfilesSQL = `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC, id`

const deleteProfileSQL = `DELETE FROM profiles WHERE id = ?`

const countProfilesSQL = `SELECT COUNT(*) FROM profiles`
