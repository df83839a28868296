package db

// SchemaSQL contains the database schema initialization SQL.
// Indexed fields mirror what the list endpoints filter on.
const SchemaSQL = `
    -- ==========================================================================
    -- JOB TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS job SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON job TYPE string;
    DEFINE FIELD IF NOT EXISTS slug ON job TYPE string;
    DEFINE FIELD IF NOT EXISTS status ON job TYPE string DEFAULT 'active'
        ASSERT $value IN ['active', 'archived'];
    DEFINE FIELD IF NOT EXISTS tags ON job TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS ` + "`order`" + ` ON job TYPE int;
    DEFINE FIELD IF NOT EXISTS created_at ON job TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON job TYPE option<datetime>;

    DEFINE INDEX IF NOT EXISTS job_status ON job FIELDS status;
    DEFINE INDEX IF NOT EXISTS job_order ON job FIELDS ` + "`order`" + `;
    DEFINE INDEX IF NOT EXISTS job_tags ON job FIELDS tags;

    -- ==========================================================================
    -- CANDIDATE TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS candidate SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON candidate TYPE string;
    DEFINE FIELD IF NOT EXISTS email ON candidate TYPE string;
    DEFINE FIELD IF NOT EXISTS stage ON candidate TYPE string DEFAULT 'applied'
        ASSERT $value IN ['applied', 'screen', 'tech', 'offer', 'hired', 'rejected'];
    DEFINE FIELD IF NOT EXISTS job_id ON candidate TYPE string;
    DEFINE FIELD IF NOT EXISTS applied_at ON candidate TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON candidate TYPE option<datetime>;

    DEFINE INDEX IF NOT EXISTS candidate_name ON candidate FIELDS name;
    DEFINE INDEX IF NOT EXISTS candidate_email ON candidate FIELDS email;
    DEFINE INDEX IF NOT EXISTS candidate_stage ON candidate FIELDS stage;
    DEFINE INDEX IF NOT EXISTS candidate_job ON candidate FIELDS job_id;

    -- ==========================================================================
    -- TIMELINE TABLE (append-only candidate status history)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS timeline SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS candidate_id ON timeline TYPE string;
    DEFINE FIELD IF NOT EXISTS message ON timeline TYPE string;
    DEFINE FIELD IF NOT EXISTS old_stage ON timeline TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS new_stage ON timeline TYPE string;
    DEFINE FIELD IF NOT EXISTS timestamp ON timeline TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS timeline_candidate ON timeline FIELDS candidate_id;
    DEFINE INDEX IF NOT EXISTS timeline_timestamp ON timeline FIELDS timestamp;

    -- ==========================================================================
    -- ASSESSMENT TABLE (one structure per job, record id = job id)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS assessment SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS job_id ON assessment TYPE string;
    DEFINE FIELD IF NOT EXISTS structure ON assessment TYPE object FLEXIBLE;

    DEFINE INDEX IF NOT EXISTS assessment_job ON assessment FIELDS job_id UNIQUE;

    -- ==========================================================================
    -- CANDIDATE_RESPONSE TABLE (submitted answers, overwritten on resubmit)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS candidate_response SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS candidate_id ON candidate_response TYPE string;
    DEFINE FIELD IF NOT EXISTS job_id ON candidate_response TYPE string;
    DEFINE FIELD IF NOT EXISTS responses ON candidate_response TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS submitted_at ON candidate_response TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS response_candidate_job ON candidate_response FIELDS candidate_id, job_id UNIQUE;
`
