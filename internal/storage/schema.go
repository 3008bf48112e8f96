package storage

// Canonical schema. Snowflake IDs are stored as bigint throughout; earlier
// generations of the bot disagreed between varchar and integer columns.
var schema = []string{
	`create table if not exists discord_user (
		id serial primary key,
		discord_id bigint not null,
		guild_id bigint not null,
		username varchar(255) not null,
		joined timestamptz not null,
		xp integer not null default 0,
		level integer not null default 0,
		unique (discord_id, guild_id)
	)`,
	`create table if not exists tag (
		id serial primary key,
		name varchar(255) not null,
		content varchar(2000) not null,
		discord_id bigint not null,
		location_id bigint not null,
		called integer not null default 0,
		date_added timestamptz not null default now(),
		unique (name, location_id)
	)`,
	`create table if not exists pet (
		id serial primary key,
		discord_id bigint not null unique,
		pet_name varchar(50) not null,
		hunger integer not null default 50,
		happiness integer not null default 50,
		treat_count integer not null default 0,
		last_fed timestamptz not null default now()
	)`,
	`create table if not exists racer (
		id serial primary key,
		discord_id bigint not null,
		location_id bigint not null,
		wins integer not null default 0,
		points integer not null default 0,
		unique (discord_id, location_id)
	)`,
	`create table if not exists ping (
		id serial primary key,
		ping_ws integer not null,
		ping_rest integer not null,
		date timestamptz not null default now()
	)`,
	`create table if not exists tracked_word (
		id serial primary key,
		word varchar(255) not null unique,
		count bigint not null default 0,
		discord_id bigint not null
	)`,
}

func (s *Storage) initSchema() error {
	for _, ddl := range schema {
		if _, err := s.pool.Exec(s.ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
